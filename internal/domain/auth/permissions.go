package auth

const (
	RoleAdmin          = "ADMIN"
	RoleProjectManager = "PROJECT_MANAGER"
	RoleTrainingLead   = "TRAINING_LEAD"
	RoleQA             = "QA"
	RoleFinance        = "FINANCE"
	RoleFreelancer     = "FREELANCER"
)

const (
	PermApplicationsRead   = "applications.read"
	PermApplicationsReview = "applications.review"
	PermFreelancersRead    = "freelancers.read"
	PermFreelancersWrite   = "freelancers.write"
	PermProjectsRead       = "projects.read"
	PermProjectsWrite      = "projects.write"
	PermPerformanceRead    = "performance.read"
	PermPerformanceWrite   = "performance.write"
	PermPerformanceDelete  = "performance.delete"
	PermTieringRead        = "tiering.read"
	PermTieringApply       = "tiering.apply"
	PermTieringBulk        = "tiering.bulk"
	PermPaymentsRead       = "payments.read"
	PermPaymentsWrite      = "payments.write"
	PermPaymentsDelete     = "payments.delete"
	PermAuditRead          = "audit.read"
	PermUsersManage        = "users.manage"
	PermFormsWrite         = "forms.write"
	PermDashboardRead      = "dashboard.read"
	PermSystemAdmin        = "admin.system"
	PermPortalAccess       = "portal.access"
)

var DefaultPermissions = []string{
	PermApplicationsRead,
	PermApplicationsReview,
	PermFreelancersRead,
	PermFreelancersWrite,
	PermProjectsRead,
	PermProjectsWrite,
	PermPerformanceRead,
	PermPerformanceWrite,
	PermPerformanceDelete,
	PermTieringRead,
	PermTieringApply,
	PermTieringBulk,
	PermPaymentsRead,
	PermPaymentsWrite,
	PermPaymentsDelete,
	PermAuditRead,
	PermUsersManage,
	PermFormsWrite,
	PermDashboardRead,
	PermSystemAdmin,
	PermPortalAccess,
}

var RolePermissions = map[string][]string{
	RoleAdmin: {
		PermApplicationsRead,
		PermApplicationsReview,
		PermFreelancersRead,
		PermFreelancersWrite,
		PermProjectsRead,
		PermProjectsWrite,
		PermPerformanceRead,
		PermPerformanceWrite,
		PermPerformanceDelete,
		PermTieringRead,
		PermTieringApply,
		PermTieringBulk,
		PermPaymentsRead,
		PermPaymentsWrite,
		PermPaymentsDelete,
		PermAuditRead,
		PermUsersManage,
		PermFormsWrite,
		PermDashboardRead,
		PermSystemAdmin,
	},
	RoleProjectManager: {
		PermApplicationsRead,
		PermApplicationsReview,
		PermFreelancersRead,
		PermFreelancersWrite,
		PermProjectsRead,
		PermProjectsWrite,
		PermPerformanceRead,
		PermPerformanceWrite,
		PermPerformanceDelete,
		PermTieringRead,
		PermTieringApply,
		PermDashboardRead,
	},
	RoleTrainingLead: {
		PermApplicationsRead,
		PermFreelancersRead,
		PermProjectsRead,
		PermPerformanceRead,
		PermPerformanceWrite,
	},
	RoleQA: {
		PermFreelancersRead,
		PermProjectsRead,
		PermPerformanceRead,
		PermPerformanceWrite,
	},
	RoleFinance: {
		PermPaymentsRead,
		PermPaymentsWrite,
	},
	RoleFreelancer: {
		PermPortalAccess,
	},
}

// Allowed reports whether the built-in permission table grants perm to role.
func Allowed(role, perm string) bool {
	for _, candidate := range RolePermissions[role] {
		if candidate == perm {
			return true
		}
	}
	return false
}

// Roles lists every assignable role name.
func Roles() []string {
	return []string{RoleAdmin, RoleProjectManager, RoleTrainingLead, RoleQA, RoleFinance, RoleFreelancer}
}
