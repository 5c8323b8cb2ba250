package notifications

const (
	TypeApplicationApproved = "APPLICATION_APPROVED"
	TypeProjectAssigned     = "PROJECT_ASSIGNED"
	TypeProjectApplication  = "PROJECT_APPLICATION"
	TypePerformanceUpdate   = "PERFORMANCE_UPDATE"
	TypeTierUpdate          = "TIER_UPDATE"
	TypePaymentUpdate       = "PAYMENT_UPDATE"
)

const (
	RelatedProject     = "PROJECT"
	RelatedPerformance = "PERFORMANCE"
	RelatedPayment     = "PAYMENT"
	RelatedFreelancer  = "FREELANCER"
)
