package schema

var (
	// bucket
	SettingsBucket = "settings-bucket"  // key: settings field name, val: json value
	TabStateBucket = "tab-state-bucket" // key: last:<tabId>, val: json(ResolutionPayload)

	LastPrefix = "last:"
)
