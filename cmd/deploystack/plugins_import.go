package main

// Blank imports ensure plugin init() registration runs for the CLI binary.
import (
	_ "github.com/deploystackio/deploystack-sub002/internal/plugins/auditlog"
	_ "github.com/deploystackio/deploystack-sub002/internal/plugins/gitrepo"
	_ "github.com/deploystackio/deploystack-sub002/internal/plugins/notices"
	_ "github.com/deploystackio/deploystack-sub002/internal/plugins/sysinfo"
)
