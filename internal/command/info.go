package command

import (
	"fmt"
	"strings"

	"redikv/internal/resp"
)

// handleInfo emits only the replication section: role, master_replid,
// and master_repl_offset. Real Redis's INFO has many more sections;
// implementing them is out of scope here.
func handleInfo(env *Env, args []resp.Message) resp.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "# Replication\r\n")
	fmt.Fprintf(&b, "role:%s\r\n", env.Config.Role)
	fmt.Fprintf(&b, "master_replid:%s\r\n", env.Config.ReplicationID)
	fmt.Fprintf(&b, "master_repl_offset:%d\r\n", env.Config.ReplicationOffset)
	return resp.BulkStringFromString(b.String())
}
