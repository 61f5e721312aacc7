package migration

import (
	auditdomain "github.com/smallbiznis/washdesk/internal/audit/domain"
	appointmentdomain "github.com/smallbiznis/washdesk/internal/appointment/domain"
	catalogdomain "github.com/smallbiznis/washdesk/internal/catalog/domain"
	clientdomain "github.com/smallbiznis/washdesk/internal/client/domain"
	companydomain "github.com/smallbiznis/washdesk/internal/company/domain"
	financialdomain "github.com/smallbiznis/washdesk/internal/financial/domain"
	followupdomain "github.com/smallbiznis/washdesk/internal/followup/domain"
	onboardingdomain "github.com/smallbiznis/washdesk/internal/onboarding/domain"
	spacedomain "github.com/smallbiznis/washdesk/internal/space/domain"
	userdomain "github.com/smallbiznis/washdesk/internal/user/domain"
	workorderdomain "github.com/smallbiznis/washdesk/internal/workorder/domain"
)

// Models lists every persisted table, parents first. The SQL migrations are the
// source of truth on postgres; this list drives AutoMigrate on the other drivers.
func Models() []any {
	return []any{
		&companydomain.Company{},
		&onboardingdomain.CompanyOnboarding{},
		&userdomain.User{},
		&clientdomain.Client{},
		&clientdomain.Vehicle{},
		&catalogdomain.CatalogItem{},
		&appointmentdomain.Appointment{},
		&appointmentdomain.AppointmentService{},
		&workorderdomain.WorkOrder{},
		&workorderdomain.WorkOrderSequence{},
		&workorderdomain.WorkOrderItem{},
		&workorderdomain.Payment{},
		&followupdomain.FollowUp{},
		&spacedomain.Space{},
		&spacedomain.SpaceOccupation{},
		&financialdomain.AccountPayable{},
		&financialdomain.AccountReceivable{},
		&auditdomain.AuditLog{},
	}
}
