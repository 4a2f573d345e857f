package blocklist

import "errors"

// ErrStaleData marks diagnostics for a store whose freshness timestamp
// is missing, unreadable, or past the staleness window. It never
// reaches callers: matching degrades to "no match".
var ErrStaleData = errors.New("blocklist data is stale")
