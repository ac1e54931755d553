package services

import (
	"context"
	"fmt"
	"time"

	"github.com/WenderAlvesSantos/api-aecac/apperrors"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/utils"
)

// Report sections and export tables.
const (
	ReportEnrollments = "inscricoes"
	ReportBenefits    = "beneficios"
	ReportCompanies   = "empresas"
	ReportUsers       = "usuarios"
	ExportTrainings   = "capacitacoes"
)

// ReportService builds the admin dashboards and data exports.
type ReportService struct {
	companies CompanyStore
	benefits  BenefitStore
	trainings ActivityStore
	events    ActivityStore
	accounts  AccountStore
	now       Clock
}

func NewReportService(companies CompanyStore, benefits BenefitStore, trainings, events ActivityStore, accounts AccountStore) *ReportService {
	return &ReportService{
		companies: companies,
		benefits:  benefits,
		trainings: trainings,
		events:    events,
		accounts:  accounts,
		now:       time.Now,
	}
}

// Build returns the requested section, or every section when kind is empty.
func (s *ReportService) Build(ctx context.Context, kind string) (*models.Report, error) {
	switch kind {
	case "", ReportEnrollments, ReportBenefits, ReportCompanies, ReportUsers:
	default:
		return nil, apperrors.Validation("Tipo de relatório inválido")
	}
	all := kind == ""
	report := &models.Report{}
	var err error

	if all || kind == ReportEnrollments {
		if report.Enrollments, err = s.enrollmentReport(ctx); err != nil {
			return nil, err
		}
	}
	if all || kind == ReportBenefits {
		if report.Benefits, err = s.benefitReport(ctx); err != nil {
			return nil, err
		}
	}
	if all || kind == ReportCompanies {
		if report.Companies, err = s.companyReport(ctx); err != nil {
			return nil, err
		}
	}
	if all || kind == ReportUsers {
		if report.Users, err = s.userReport(ctx); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// Occupancy formats enrolled/seats as a percentage, "Ilimitadas" without a limit.
func Occupancy(enrolled int, seats *int) string {
	if seats == nil || *seats <= 0 {
		return "Ilimitadas"
	}
	return fmt.Sprintf("%.2f%%", float64(enrolled)/float64(*seats)*100)
}

func (s *ReportService) enrollmentReport(ctx context.Context) (*models.EnrollmentReport, error) {
	report := &models.EnrollmentReport{Details: []models.EnrollmentDetail{}}
	for _, src := range []struct {
		kind  string
		store ActivityStore
	}{{models.KindTraining, s.trainings}, {models.KindEvent, s.events}} {
		activities, err := src.store.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, a := range activities {
			seats := 0
			if a.Seats != nil {
				seats = *a.Seats
			}
			report.Details = append(report.Details, models.EnrollmentDetail{
				ID:        a.ID.Hex(),
				Kind:      src.kind,
				Title:     a.Title,
				Type:      a.Type,
				Date:      a.Date,
				Seats:     seats,
				Enrolled:  a.Enrolled,
				Occupancy: Occupancy(a.Enrolled, a.Seats),
			})
			report.TotalEnrolled += a.Enrolled
		}
	}
	report.Total = len(report.Details)
	return report, nil
}

func (s *ReportService) benefitReport(ctx context.Context) (*models.BenefitReport, error) {
	benefits, err := s.benefits.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	today := utils.StartOfDay(s.now())
	report := &models.BenefitReport{Total: len(benefits), Details: make([]models.BenefitDetail, 0, len(benefits))}
	for _, b := range benefits {
		switch {
		case b.ExpiresAt != nil && b.ExpiresAt.Before(today):
			report.Expired++
		case b.Active:
			report.Active++
		default:
			report.Inactive++
		}
		report.Details = append(report.Details, models.BenefitDetail{
			ID:        b.ID.Hex(),
			Title:     b.Title,
			CompanyID: b.CompanyID,
			Discount:  b.Discount,
			Active:    b.Active,
			ExpiresAt: b.ExpiresAt,
			Redeemed:  b.Redeemed,
		})
	}
	return report, nil
}

func (s *ReportService) companyReport(ctx context.Context) (*models.CompanyReport, error) {
	companies, err := s.companies.ListByStatus(ctx, "")
	if err != nil {
		return nil, err
	}
	report := &models.CompanyReport{
		Total:      len(companies),
		ByCategory: map[string]int{},
		ByStatus:   map[string]int{},
	}
	for _, c := range companies {
		report.ByCategory[c.Category]++
		report.ByStatus[c.Status]++
		if c.Image != nil && *c.Image != "" {
			report.WithImage++
		} else {
			report.NoImage++
		}
	}
	return report, nil
}

func (s *ReportService) userReport(ctx context.Context) (*models.UserReport, error) {
	admins, err := s.accounts.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	associates, err := s.accounts.ListAssociates(ctx)
	if err != nil {
		return nil, err
	}
	report := &models.UserReport{
		Total:      len(admins) + len(associates),
		Admins:     len(admins),
		Associates: len(associates),
		Details: models.UserDetails{
			Admins:     make([]models.AccountView, 0, len(admins)),
			Associates: make([]models.AccountView, 0, len(associates)),
		},
	}
	for i := range admins {
		report.Details.Admins = append(report.Details.Admins, admins[i].View())
	}
	for i := range associates {
		report.Details.Associates = append(report.Details.Associates, associates[i].View())
	}
	return report, nil
}

// Export returns the rows of one table and the base name of the download.
func (s *ReportService) Export(ctx context.Context, table string) (string, []utils.Record, error) {
	var (
		rows []utils.Record
		err  error
	)
	switch table {
	case ReportCompanies:
		rows, err = s.exportCompanies(ctx)
	case ReportUsers:
		rows, err = s.exportUsers(ctx)
	case ExportTrainings:
		rows, err = s.exportTrainings(ctx)
	case ReportBenefits:
		rows, err = s.exportBenefits(ctx)
	default:
		return "", nil, apperrors.Validation("Tipo de exportação inválido")
	}
	if err != nil {
		return "", nil, err
	}
	return table, rows, nil
}

func (s *ReportService) exportCompanies(ctx context.Context) ([]utils.Record, error) {
	companies, err := s.companies.ListByStatus(ctx, "")
	if err != nil {
		return nil, err
	}
	rows := make([]utils.Record, 0, len(companies))
	for _, c := range companies {
		rows = append(rows, utils.Record{
			{Key: "nome", Value: c.Name},
			{Key: "categoria", Value: c.Category},
			{Key: "descricao", Value: c.Description},
			{Key: "cnpj", Value: c.CNPJ},
			{Key: "status", Value: c.Status},
			{Key: "telefone", Value: c.Phone},
			{Key: "email", Value: c.Email},
			{Key: "endereco", Value: c.Address},
			{Key: "site", Value: c.Site},
			{Key: "facebook", Value: c.Facebook},
			{Key: "instagram", Value: c.Instagram},
			{Key: "linkedin", Value: c.Linkedin},
			{Key: "dataCadastro", Value: c.CreatedAt},
		})
	}
	return rows, nil
}

func (s *ReportService) exportUsers(ctx context.Context) ([]utils.Record, error) {
	admins, err := s.accounts.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	associates, err := s.accounts.ListAssociates(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]utils.Record, 0, len(admins)+len(associates))
	for _, u := range admins {
		rows = append(rows, utils.Record{
			{Key: "nome", Value: u.Name},
			{Key: "email", Value: u.Email},
			{Key: "tipo", Value: models.AccountAdmin},
			{Key: "empresaId", Value: nil},
			{Key: "dataCadastro", Value: u.CreatedAt},
		})
	}
	for _, u := range associates {
		rows = append(rows, utils.Record{
			{Key: "nome", Value: u.Name},
			{Key: "email", Value: u.Email},
			{Key: "tipo", Value: models.AccountAssociate},
			{Key: "empresaId", Value: u.CompanyID},
			{Key: "dataCadastro", Value: u.CreatedAt},
		})
	}
	return rows, nil
}

func (s *ReportService) exportTrainings(ctx context.Context) ([]utils.Record, error) {
	trainings, err := s.trainings.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]utils.Record, 0, len(trainings))
	for _, t := range trainings {
		rows = append(rows, utils.Record{
			{Key: "titulo", Value: t.Title},
			{Key: "tipo", Value: t.Type},
			{Key: "descricao", Value: t.Description},
			{Key: "data", Value: t.Date},
			{Key: "local", Value: t.Location},
			{Key: "vagas", Value: t.Seats},
			{Key: "valor", Value: t.Price},
			{Key: "inscritos", Value: t.Enrolled},
		})
	}
	return rows, nil
}

func (s *ReportService) exportBenefits(ctx context.Context) ([]utils.Record, error) {
	benefits, err := s.benefits.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]utils.Record, 0, len(benefits))
	for _, b := range benefits {
		rows = append(rows, utils.Record{
			{Key: "titulo", Value: b.Title},
			{Key: "codigo", Value: b.Code},
			{Key: "descricao", Value: b.Description},
			{Key: "desconto", Value: b.Discount},
			{Key: "condicoes", Value: b.Conditions},
			{Key: "validade", Value: b.ExpiresAt},
			{Key: "quantidade", Value: b.Quantity},
			{Key: "resgatados", Value: b.Redeemed},
			{Key: "ativo", Value: b.Active},
		})
	}
	return rows, nil
}
