package e2e

import (
	"fmt"

	"github.com/gocql/gocql"
)

// Cassandra returns a callback that connects to the cluster and reads
// the node's release version from system.local, proving the full query
// path works. keyspace may be empty for the system-level check.
func Cassandra(hosts []string, keyspace string) func() error {
	return func() error {
		cluster := gocql.NewCluster(hosts...)
		cluster.ConnectTimeout = connectTimeout
		cluster.Timeout = workflowTimeout
		if keyspace != "" {
			cluster.Keyspace = keyspace
		}

		session, err := cluster.CreateSession()
		if err != nil {
			return fmt.Errorf("cassandra connect: %w", err)
		}
		defer session.Close()

		var version string
		if err := session.Query("SELECT release_version FROM system.local").Scan(&version); err != nil {
			return fmt.Errorf("cassandra query: %w", err)
		}
		if version == "" {
			return fmt.Errorf("cassandra returned empty release_version")
		}
		return nil
	}
}
