/*
Package session serializes access to simulated chat sessions.

Presses on the same session run one at a time through per-session mutexes;
an optional DistributedLocker extends that guarantee across replicas sharing
a redis store.
*/
package session
