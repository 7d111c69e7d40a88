package types

// RecordCounts is the raw per-owner aggregate read from storage.
type RecordCounts struct {
	TotalLeads        int
	OpenLeads         int
	TotalAccounts     int
	OpenTasks         int
	OpenPipelineCents int64
}

// DashboardStats is the payload served by /dashboard/stats.
type DashboardStats struct {
	TotalLeads    int `json:"total_leads"`
	OpenLeads     int `json:"open_leads"`
	TotalAccounts int `json:"total_accounts"`
	OpenTasks     int `json:"open_tasks"`

	// PipelineValue is the sum of open lead values in major currency units.
	PipelineValue float64 `json:"pipeline_value"`
}
