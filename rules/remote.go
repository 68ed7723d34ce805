package rules

import (
	"context"
	"fmt"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// RemoteConfig configures fetching a rule pack from an etcd cluster.
// Teams that curate rule packs centrally publish the YAML document under a
// well-known key; processes fetch it once at startup and treat the loaded
// table as read-only, exactly like a file-based pack.
type RemoteConfig struct {
	// Endpoints is the list of etcd endpoints (e.g., "localhost:2379").
	Endpoints []string

	// Key is the etcd key holding the rule pack YAML document.
	// Defaults to "stride/rulepack".
	Key string

	// DialTimeout bounds connection establishment. Defaults to 5s.
	DialTimeout time.Duration
}

// LoadRemote fetches a rule pack document from etcd and loads it.
//
// The fetch happens exactly once; there is no watch. A missing key, an
// unreachable cluster, or a pack failing validation all abort with an
// error, matching the fatal-on-incomplete-table contract.
func LoadRemote(ctx context.Context, cfg RemoteConfig) (*Table, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("remote rule pack endpoints cannot be empty")
	}

	key := cfg.Key
	if key == "" {
		key = "stride/rulepack"
	}

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}
	defer cli.Close()

	resp, err := cli.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rule pack from %s: %w", key, err)
	}
	if resp.Count == 0 {
		return nil, fmt.Errorf("no rule pack found at key %s", key)
	}

	table, err := Load(resp.Kvs[0].Value)
	if err != nil {
		return nil, fmt.Errorf("remote rule pack at %s is invalid: %w", key, err)
	}
	return table, nil
}
