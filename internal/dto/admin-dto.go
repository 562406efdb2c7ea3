package dto

// AdminStatsResponse keys match the dashboard the portal frontend
// already consumes.
type AdminStatsResponse struct {
	TotalSchemes         int64 `json:"totalSchemes"`
	TotalApplications    int64 `json:"totalApplications"`
	TotalUsers           int64 `json:"totalUsers"`
	PendingApplications  int64 `json:"pendingApplications"`
	ApprovedApplications int64 `json:"approvedApplications"`
	RejectedApplications int64 `json:"rejectedApplications"`
}
