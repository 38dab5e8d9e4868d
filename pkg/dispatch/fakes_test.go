package dispatch

import (
	"context"
	"sync"

	"github.com/aretw0/chatsim/pkg/domain"
)

type post struct {
	Text    string
	URL     string
	Kind    domain.MediaKind
	Caption string
}

// recorder captures every side effect requested by the command.
type recorder struct {
	mu        sync.Mutex
	navs      []string
	vars      map[string]string
	saveOrder []string
	posts     []post
	opened    []string
	links     []string
	fetched   []string
	picks     []domain.MediaKind

	mediaURL string
	location domain.Location
	otp      string
	nodes    map[string]*domain.ChatNode

	failSave  error
	failFetch error
	// failSaveOf limits failSave to one variable name.
	failSaveOf string
}

func newRecorder() *recorder {
	return &recorder{vars: make(map[string]string), nodes: make(map[string]*domain.ChatNode)}
}

func (r *recorder) deps(p *promptStub) Deps {
	d := Deps{
		Navigator:  r,
		Variables:  r,
		Transcript: r,
		Flows:      r,
		Platform:   r,
		OTP:        r,
		Nodes:      r,
	}
	if p != nil {
		d.Prompter = p.Scripted
	}
	return d
}

func (r *recorder) NavigateToNode(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navs = append(r.navs, id)
	return nil
}

func (r *recorder) SaveVariable(_ context.Context, name, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave != nil && (r.failSaveOf == "" || r.failSaveOf == name) {
		return r.failSave
	}
	r.vars[name] = value
	r.saveOrder = append(r.saveOrder, name)
	return nil
}

func (r *recorder) PostText(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, post{Text: text})
	return nil
}

func (r *recorder) PostMedia(_ context.Context, url string, kind domain.MediaKind, caption string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, post{URL: url, Kind: kind, Caption: caption})
	return nil
}

func (r *recorder) FetchChatFlow(_ context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetched = append(r.fetched, url)
	return r.failFetch
}

func (r *recorder) OpenURL(_ context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, url)
	return nil
}

func (r *recorder) HandleDeepLink(_ context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links = append(r.links, url)
	return nil
}

func (r *recorder) CurrentLocation(context.Context) (domain.Location, error) {
	return r.location, nil
}

func (r *recorder) PickMedia(_ context.Context, _ string, kind domain.MediaKind) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.picks = append(r.picks, kind)
	return r.mediaURL, nil
}

func (r *recorder) CurrentOTP(context.Context) (string, error) {
	return r.otp, nil
}

func (r *recorder) ResolveNode(_ context.Context, id string) (*domain.ChatNode, error) {
	n, ok := r.nodes[id]
	if !ok {
		return nil, domain.ErrNodeNotFound
	}
	return n, nil
}
