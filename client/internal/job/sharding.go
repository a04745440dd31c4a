package job

import (
	"fmt"
	"hash/fnv"
)

// Key builds the executor key for one record of a resource, so that all
// mutations of that record are serialized.
func Key(resource, id string) string {
	return resource + ":" + id
}

// ShardLabel hashes key to a stable, low-cardinality metrics label (0-31).
func ShardLabel(key string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return fmt.Sprintf("%d", h.Sum32()%32)
}
