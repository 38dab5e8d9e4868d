package cli

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/chatsim"
	"github.com/aretw0/chatsim/internal/config"
	"github.com/aretw0/chatsim/internal/logging"
	"github.com/aretw0/chatsim/internal/testutils"
	"github.com/aretw0/chatsim/pkg/adapters/file"
	"github.com/aretw0/chatsim/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flowJSON = `[
  {"Id": "start", "Sections": [{"SectionType": "Text", "Text": "Hi"}],
   "Buttons": [
     {"_id": "email", "ButtonName": "Email", "ButtonType": "GetEmail", "VariableName": "EMAIL", "NextNodeId": "otp"},
     {"_id": "site", "ButtonText": "Site", "ButtonType": "OpenUrl", "Url": "https://example.com", "NextNodeId": "start"}
   ]},
  {"Id": "otp", "Sections": [{"SectionType": "PrintOTP"}]}
]`

func writeFlow(t *testing.T) string {
	t.Helper()
	return testutils.WriteFlowFile(t, "support.json", flowJSON)
}

func baseConfig() config.Config {
	return config.Config{LogLevel: "error", FetchTimeout: 1e9, OTP: "9999"}
}

func TestBuildEngine_Memory(t *testing.T) {
	stack, err := BuildEngine(EngineOptions{FlowPath: writeFlow(t), Config: baseConfig(), Logger: logging.NewNop()})
	require.NoError(t, err)
	defer stack.Close()

	assert.Equal(t, "support", stack.Engine.Name)

	ctx := context.Background()
	_, err = stack.Engine.Start(ctx, "s1")
	require.NoError(t, err)
	res, err := stack.Engine.Press(ctx, "s1", chatsim.PressRequest{Button: "email", Value: "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, "otp", res.State.CurrentNodeID)
	assert.Equal(t, "9999", res.State.Transcript[len(res.State.Transcript)-1].Text)
}

func TestBuildEngine_FileStoreWithPIIAndEncryption(t *testing.T) {
	dir := t.TempDir()
	cfg := baseConfig()
	cfg.SessionDir = dir
	cfg.PIIPatterns = []string{"EMAIL"}
	cfg.EncryptionKey = base64.StdEncoding.EncodeToString(make([]byte, 32))

	stack, err := BuildEngine(EngineOptions{FlowPath: writeFlow(t), Config: cfg, Logger: logging.NewNop()})
	require.NoError(t, err)
	defer stack.Close()

	ctx := context.Background()
	_, err = stack.Engine.Start(ctx, "s1")
	require.NoError(t, err)
	_, err = stack.Engine.Press(ctx, "s1", chatsim.PressRequest{Button: "email", Value: "a@b.co"})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "s1.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "a@b.co")

	state, err := stack.Store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "***", state.Variables["EMAIL"])

	// The plain file store only sees the envelope.
	plain, err := file.New(dir).Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, plain.Transcript)
}

func TestBuildEngine_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := baseConfig()
	cfg.RedisAddr = mr.Addr()

	stack, err := BuildEngine(EngineOptions{FlowPath: writeFlow(t), Config: cfg, Logger: logging.NewNop()})
	require.NoError(t, err)
	defer stack.Close()

	_, err = stack.Engine.Start(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, mr.Exists(redis.DefaultPrefix+"s1"))

	ids, err := stack.Engine.Sessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)
}

func TestBuildEngine_Errors(t *testing.T) {
	cfg := baseConfig()
	cfg.EncryptionKey = "not base64!"
	_, err := BuildEngine(EngineOptions{FlowPath: writeFlow(t), Config: cfg})
	assert.Error(t, err)

	cfg = baseConfig()
	cfg.PIIPatterns = []string{"("}
	_, err = BuildEngine(EngineOptions{FlowPath: writeFlow(t), Config: cfg})
	assert.Error(t, err)

	_, err = BuildEngine(EngineOptions{FlowPath: filepath.Join(t.TempDir(), "missing.json"), Config: baseConfig()})
	assert.Error(t, err)
}

func TestOpenStore_ReadsEngineSessions(t *testing.T) {
	dir := t.TempDir()
	cfg := baseConfig()
	cfg.SessionDir = dir
	cfg.EncryptionKey = base64.StdEncoding.EncodeToString(make([]byte, 32))

	stack, err := BuildEngine(EngineOptions{FlowPath: writeFlow(t), Config: cfg, Logger: logging.NewNop()})
	require.NoError(t, err)
	_, err = stack.Engine.Start(context.Background(), "s1")
	require.NoError(t, err)
	require.NoError(t, stack.Close())

	store, err := OpenStore(cfg)
	require.NoError(t, err)
	defer store.Close()
	assert.Nil(t, store.Engine)

	ids, err := store.Store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)

	state, err := store.Store.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "start", state.CurrentNodeID)
}
