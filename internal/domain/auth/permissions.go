package auth

const (
	RoleAdmin       = "admin"
	RoleTeamManager = "team_manager"
	RoleTeamLeader  = "team_leader"
	RoleStaff       = "staff"
)

const (
	PermUsersRead         = "users.read"
	PermUsersWrite        = "users.write"
	PermTeamsRead         = "teams.read"
	PermTeamsWrite        = "teams.write"
	PermDepartmentsRead   = "departments.read"
	PermDepartmentsWrite  = "departments.write"
	PermFormsRead         = "forms.read"
	PermFormsWrite        = "forms.write"
	PermEvaluationsSubmit = "evaluations.submit"
	PermEvaluationsRead   = "evaluations.read"
	PermEvaluationsUpdate = "evaluations.update"
	PermPeriodsRead       = "periods.read"
	PermPeriodsWrite      = "periods.write"
	PermReportsRead       = "reports.read"
	PermAuditRead         = "audit.read"
	PermMetricsRead       = "admin.metrics"
)

var DefaultPermissions = []string{
	PermUsersRead,
	PermUsersWrite,
	PermTeamsRead,
	PermTeamsWrite,
	PermDepartmentsRead,
	PermDepartmentsWrite,
	PermFormsRead,
	PermFormsWrite,
	PermEvaluationsSubmit,
	PermEvaluationsRead,
	PermEvaluationsUpdate,
	PermPeriodsRead,
	PermPeriodsWrite,
	PermReportsRead,
	PermAuditRead,
	PermMetricsRead,
}

// RolePermissions mirrors the route gates of the legacy HR portal: staff and
// team leaders submit evaluations, managers and admins author forms and
// correct submitted evaluations, admins own departments and operations.
var RolePermissions = map[string][]string{
	RoleStaff: {
		PermUsersRead,
		PermTeamsRead,
		PermFormsRead,
		PermEvaluationsSubmit,
		PermEvaluationsRead,
		PermPeriodsRead,
	},
	RoleTeamLeader: {
		PermUsersRead,
		PermTeamsRead,
		PermTeamsWrite,
		PermFormsRead,
		PermEvaluationsSubmit,
		PermEvaluationsRead,
		PermPeriodsRead,
	},
	RoleTeamManager: {
		PermUsersRead,
		PermUsersWrite,
		PermTeamsRead,
		PermTeamsWrite,
		PermFormsRead,
		PermFormsWrite,
		PermEvaluationsRead,
		PermEvaluationsUpdate,
		PermPeriodsRead,
		PermReportsRead,
	},
	RoleAdmin: {
		PermUsersRead,
		PermUsersWrite,
		PermTeamsRead,
		PermTeamsWrite,
		PermDepartmentsRead,
		PermDepartmentsWrite,
		PermFormsRead,
		PermFormsWrite,
		PermEvaluationsRead,
		PermEvaluationsUpdate,
		PermPeriodsRead,
		PermPeriodsWrite,
		PermReportsRead,
		PermAuditRead,
		PermMetricsRead,
	},
}
