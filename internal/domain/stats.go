package domain

// DashboardStats son los contadores de solo lectura del panel de administracion.
type DashboardStats struct {
	TotalUsers       int64   `json:"total_users"`
	PendingApprovals int64   `json:"pending_approvals"`
	TotalCampaigns   int64   `json:"total_campaigns"`
	ActiveCampaigns  int64   `json:"active_campaigns"`
	TotalDonations   int64   `json:"total_donations"`
	TotalAmount      float64 `json:"total_amount"`
}
