package job

import (
	"strconv"
	"testing"
)

func TestKey(t *testing.T) {
	t.Parallel()
	if got := Key("file", "42"); got != "file:42" {
		t.Fatalf("Key = %q", got)
	}
}

func TestShardLabel_DeterministicAndRange(t *testing.T) {
	t.Parallel()
	for _, key := range []string{"", "file:1", "user:2", "appointment:3", Key("file", "a-much-longer-identifier")} {
		got := ShardLabel(key)
		if got != ShardLabel(key) {
			t.Fatalf("ShardLabel not deterministic for %q", key)
		}
		n, err := strconv.Atoi(got)
		if err != nil || n < 0 || n > 31 {
			t.Fatalf("ShardLabel out of range for %q: %s", key, got)
		}
	}
}
