package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/apperrors"
	"github.com/WenderAlvesSantos/api-aecac/metrics"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/repositories"
	"github.com/WenderAlvesSantos/api-aecac/utils"
)

// activityTexts holds the user-facing messages that differ between
// trainings and events.
type activityTexts struct {
	collection        string
	notFound          string
	invalidID         string
	required          string
	guestRequired     string
	cancelRequired    string
	idRequired        string
	noSeats           string
	guestEnrolled     string
	accountEnrolled   string
	editForbidden     string
	deleteForbidden   string
	enrolleeForbidden string
	deleted           string
	closed            string
}

var activityMessages = map[string]activityTexts{
	models.KindTraining: {
		collection:        repositories.CollTrainings,
		notFound:          "Capacitação não encontrada",
		invalidID:         "ID da capacitação inválido",
		required:          "Título, descrição, tipo e data são obrigatórios",
		guestRequired:     "ID da capacitação, nome, CPF e telefone são obrigatórios",
		cancelRequired:    "ID da capacitação e CPF são obrigatórios",
		idRequired:        "ID da capacitação é obrigatório",
		noSeats:           "Não há vagas disponíveis para esta capacitação",
		guestEnrolled:     "Este CPF já está inscrito nesta capacitação",
		accountEnrolled:   "Você já está inscrito nesta capacitação",
		editForbidden:     "Você só pode editar capacitações da sua empresa",
		deleteForbidden:   "Você só pode excluir capacitações da sua empresa",
		enrolleeForbidden: "Você só pode visualizar inscritos das capacitações da sua empresa",
		deleted:           "Capacitação deletada com sucesso",
		closed:            "Esta capacitação não está mais disponível",
	},
	models.KindEvent: {
		collection:        repositories.CollEvents,
		notFound:          "Evento não encontrado",
		invalidID:         "ID do evento inválido",
		required:          "Campos obrigatórios faltando",
		guestRequired:     "ID do evento, nome, CPF e telefone são obrigatórios",
		cancelRequired:    "ID do evento e CPF são obrigatórios",
		idRequired:        "ID do evento é obrigatório",
		noSeats:           "Não há vagas disponíveis para este evento",
		guestEnrolled:     "Este CPF já está inscrito neste evento",
		accountEnrolled:   "Você já está inscrito neste evento",
		editForbidden:     "Você só pode editar eventos da sua empresa",
		deleteForbidden:   "Você só pode excluir eventos da sua empresa",
		enrolleeForbidden: "Você só pode visualizar inscritos dos eventos da sua empresa",
		deleted:           "Evento deletado com sucesso",
		closed:            "Este evento não está mais disponível",
	},
}

const msgEnrollmentNotFound = "Inscrição não encontrada"

// ActivityService serves trainings or events, depending on kind. Seats are
// reserved on the activity counter before the enrollment is written.
type ActivityService struct {
	kind        string
	texts       activityTexts
	activities  ActivityStore
	enrollments EnrollmentStore
	companies   CompanyStore
	accounts    AccountStore
	log         *zap.Logger
	now         Clock
}

func NewActivityService(kind string, activities ActivityStore, enrollments EnrollmentStore, companies CompanyStore, accounts AccountStore, log *zap.Logger) *ActivityService {
	if kind != models.KindEvent {
		kind = models.KindTraining
	}
	return &ActivityService{
		kind:        kind,
		texts:       activityMessages[kind],
		activities:  activities,
		enrollments: enrollments,
		companies:   companies,
		accounts:    accounts,
		log:         log.With(zap.String("kind", kind)),
		now:         time.Now,
	}
}

func (s *ActivityService) Kind() string { return s.kind }

// DeletedMessage is the confirmation returned after Delete.
func (s *ActivityService) DeletedMessage() string { return s.texts.deleted }

// List returns activities sorted by date. Without logged the public branch
// applies even for signed-in callers.
func (s *ActivityService) List(ctx context.Context, who Identity, logged bool) ([]models.ActivityView, error) {
	today := utils.StartOfDay(s.now())
	if n, err := s.activities.DeactivateExpired(ctx, today); err != nil {
		s.log.Warn("failed to deactivate expired activities", zap.Error(err))
	} else if n > 0 {
		metrics.ExpiredDeactivated.WithLabelValues(s.texts.collection).Add(float64(n))
	}

	vis := models.Visibility{Scope: models.ScopePublic}
	if logged {
		vis = VisibilityOf(who)
	}
	activities, err := s.activities.List(ctx, vis, today)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(activities))
	for _, a := range activities {
		if a.CompanyID != nil {
			ids = append(ids, *a.CompanyID)
		}
	}
	owners := summaries(ctx, s.companies, ids, s.log)

	views := make([]models.ActivityView, 0, len(activities))
	for _, a := range activities {
		view := annotate(a)
		if a.CompanyID != nil {
			view.Company = owners[*a.CompanyID]
		}
		views = append(views, view)
	}
	return views, nil
}

func annotate(a models.Activity) models.ActivityView {
	return models.ActivityView{Activity: a, AvailableSeats: a.AvailableSeats(), TotalEnrolled: a.Enrolled}
}

func (s *ActivityService) Get(ctx context.Context, id primitive.ObjectID) (*models.ActivityView, error) {
	a, err := s.activities.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, s.texts.notFound)
	}
	view := annotate(*a)
	if a.CompanyID != nil {
		if owner, err := s.companies.FindByID(ctx, *a.CompanyID); err == nil {
			view.Company = &models.CompanySummary{ID: owner.ID, Name: owner.Name, Image: owner.Image}
		}
	}
	return &view, nil
}

func (s *ActivityService) validateCreate(in models.ActivityInput) error {
	if str(in.Title) == "" || str(in.Description) == "" || str(in.Date) == "" {
		return apperrors.Validation(s.texts.required)
	}
	if s.kind == models.KindTraining && str(in.Type) == "" {
		return apperrors.Validation(s.texts.required)
	}
	return nil
}

// Create stores a training or event owned by the associate's company, or by
// the company an administrator picks (none for a house activity).
func (s *ActivityService) Create(ctx context.Context, who Identity, in models.ActivityInput) (*models.Activity, error) {
	if err := s.validateCreate(in); err != nil {
		return nil, err
	}

	var owner *primitive.ObjectID
	switch v := who.(type) {
	case AssociateIdentity:
		companyID := v.CompanyID
		owner = &companyID
	case AdminIdentity:
		id, err := resolveCompanyRef(ctx, s.companies, in.CompanyID)
		if err != nil {
			return nil, err
		}
		owner = id
	default:
		return nil, apperrors.Forbidden("Acesso negado")
	}

	date, err := utils.ParseDate(*in.Date)
	if err != nil {
		return nil, apperrors.Validation(msgInvalidDate)
	}

	now := s.now()
	activity := &models.Activity{
		Title:       str(in.Title),
		Description: str(in.Description),
		Date:        &date,
		Location:    str(in.Location),
		CompanyID:   owner,
		Active:      true,
		Type:        str(in.Type),
		Link:        str(in.Link),
		Price:       in.Price,
		Time:        str(in.Time),
		Category:    str(in.Category),
		Speaker:     str(in.Speaker),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Active != nil {
		activity.Active = *in.Active
	}
	if in.Seats != nil {
		if *in.Seats < 0 {
			return nil, apperrors.Validation("Número de vagas inválido")
		}
		if *in.Seats > 0 {
			seats := *in.Seats
			activity.Seats = &seats
		}
	}
	if str(in.Image) != "" {
		activity.Image = utils.DownscaleImage(in.Image)
	}

	if err := s.activities.Insert(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *ActivityService) Update(ctx context.Context, who Identity, id primitive.ObjectID, in models.ActivityInput) (*models.Activity, error) {
	current, err := s.activities.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, s.texts.notFound)
	}
	if err := authorizeOwner(who, current.CompanyID, s.texts.editForbidden); err != nil {
		return nil, err
	}

	set, unset := bson.M{}, bson.M{}
	setIfNonEmpty(set, "titulo", in.Title)
	setIfNonEmpty(set, "descricao", in.Description)
	setIfPresent(set, "local", in.Location)
	optional := map[string]*string{
		"tipo":        in.Type,
		"link":        in.Link,
		"hora":        in.Time,
		"categoria":   in.Category,
		"palestrante": in.Speaker,
	}
	for key, v := range optional {
		if v == nil {
			continue
		}
		if str(v) == "" {
			unset[key] = ""
		} else {
			set[key] = str(v)
		}
	}
	if in.Price != nil {
		set["valor"] = in.Price
	}
	if in.Active != nil {
		set["ativo"] = *in.Active
	}
	if in.Date != nil && str(in.Date) != "" {
		date, err := utils.ParseDate(*in.Date)
		if err != nil {
			return nil, apperrors.Validation(msgInvalidDate)
		}
		set["data"] = date
	}
	if in.Seats != nil {
		switch {
		case *in.Seats < 0:
			return nil, apperrors.Validation("Número de vagas inválido")
		case *in.Seats == 0:
			set["vagas"] = nil
		default:
			set["vagas"] = *in.Seats
		}
	}
	if in.Image != nil {
		if str(in.Image) == "" {
			set["imagem"] = nil
		} else {
			set["imagem"] = utils.DownscaleDataURL(*in.Image)
		}
	}

	if IsAdmin(who) && in.CompanyID != nil {
		owner, err := resolveCompanyRef(ctx, s.companies, in.CompanyID)
		if err != nil {
			return nil, err
		}
		set["empresaId"] = owner
	}

	activity, err := s.activities.Update(ctx, id, set, unset)
	if err != nil {
		return nil, notFoundAs(err, s.texts.notFound)
	}
	return activity, nil
}

// Delete removes an activity and its enrollments.
func (s *ActivityService) Delete(ctx context.Context, who Identity, id primitive.ObjectID) error {
	current, err := s.activities.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, s.texts.notFound)
	}
	if err := authorizeOwner(who, current.CompanyID, s.texts.deleteForbidden); err != nil {
		return err
	}
	if err := s.activities.Delete(ctx, id); err != nil {
		return notFoundAs(err, s.texts.notFound)
	}
	if err := s.enrollments.DeleteByItem(ctx, s.kind, id); err != nil {
		s.log.Warn("failed to delete enrollments", zap.String("item", id.Hex()), zap.Error(err))
	}
	return nil
}

// ItemID picks the activity id of an enrollment request.
func (s *ActivityService) ItemID(req models.EnrollRequest) string {
	if s.kind == models.KindEvent {
		return strings.TrimSpace(req.EventID)
	}
	return strings.TrimSpace(req.TrainingID)
}

// EnrollGuest registers an anonymous visitor by CPF.
func (s *ActivityService) EnrollGuest(ctx context.Context, req models.EnrollRequest) (*models.ActivityHeadline, error) {
	rawID := s.ItemID(req)
	name, phone := strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone)
	if rawID == "" || name == "" || strings.TrimSpace(req.CPF) == "" || phone == "" {
		return nil, apperrors.Validation(s.texts.guestRequired)
	}
	cpf, ok := utils.NormalizeCPF(req.CPF)
	if !ok {
		return nil, apperrors.Validation(msgCPFInvalid)
	}
	id, err := s.parseItemID(rawID)
	if err != nil {
		return nil, err
	}
	enrollment := &models.Enrollment{
		Origin: models.OriginPublic,
		Name:   name,
		CPF:    cpf,
		Phone:  phone,
		Email:  utils.NormalizeEmail(req.Email),
	}
	return s.enroll(ctx, id, enrollment, repositories.Registrant{CPF: cpf}, s.texts.guestEnrolled)
}

// EnrollAccount registers the signed-in account with its own name and email.
func (s *ActivityService) EnrollAccount(ctx context.Context, who Identity, req models.EnrollRequest) (*models.ActivityHeadline, error) {
	rawID := s.ItemID(req)
	if rawID == "" {
		return nil, apperrors.Validation(s.texts.idRequired)
	}
	id, err := s.parseItemID(rawID)
	if err != nil {
		return nil, err
	}
	name, email, err := contactOf(ctx, s.accounts, who)
	if err != nil {
		return nil, err
	}
	accountID := who.AccountID()
	enrollment := &models.Enrollment{
		Origin:    models.OriginPrivate,
		AccountID: &accountID,
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
	}
	return s.enroll(ctx, id, enrollment, repositories.Registrant{AccountID: &accountID}, s.texts.accountEnrolled)
}

func (s *ActivityService) enroll(ctx context.Context, id primitive.ObjectID, enrollment *models.Enrollment, who repositories.Registrant, duplicateMsg string) (*models.ActivityHeadline, error) {
	origin := enrollment.Origin
	activity, err := s.activities.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, s.texts.notFound)
	}
	if !activity.Active || (activity.Date != nil && activity.Date.Before(utils.StartOfDay(s.now()))) {
		metrics.Enrollments.WithLabelValues(s.kind, origin, metrics.ResultRejected).Inc()
		return nil, apperrors.Forbidden(s.texts.closed)
	}

	exists, err := s.enrollments.Exists(ctx, s.kind, id, who)
	if err != nil {
		return nil, err
	}
	if exists {
		metrics.Enrollments.WithLabelValues(s.kind, origin, metrics.ResultDuplicate).Inc()
		return nil, apperrors.Conflict(duplicateMsg)
	}

	reserved, err := s.activities.Reserve(ctx, id)
	if err != nil {
		return nil, err
	}
	if !reserved {
		metrics.Enrollments.WithLabelValues(s.kind, origin, metrics.ResultExhausted).Inc()
		return nil, apperrors.Forbidden(s.texts.noSeats)
	}

	enrollment.Kind = s.kind
	enrollment.ItemID = id
	enrollment.EnrolledAt = s.now()
	if err := s.enrollments.Insert(ctx, enrollment); err != nil {
		if releaseErr := s.activities.Release(ctx, id); releaseErr != nil {
			s.log.Error("failed to release seat", zap.String("item", id.Hex()), zap.Error(releaseErr))
		}
		if errors.Is(err, repositories.ErrDuplicate) {
			metrics.Enrollments.WithLabelValues(s.kind, origin, metrics.ResultDuplicate).Inc()
			return nil, apperrors.Conflict(duplicateMsg)
		}
		metrics.Enrollments.WithLabelValues(s.kind, origin, metrics.ResultError).Inc()
		return nil, err
	}
	metrics.Enrollments.WithLabelValues(s.kind, origin, metrics.ResultOK).Inc()

	return &models.ActivityHeadline{Title: activity.Title, Date: activity.Date, Location: activity.Location}, nil
}

// CancelGuest removes the enrollment of a CPF and frees its seat.
func (s *ActivityService) CancelGuest(ctx context.Context, req models.EnrollRequest) error {
	rawID := s.ItemID(req)
	if rawID == "" || strings.TrimSpace(req.CPF) == "" {
		return apperrors.Validation(s.texts.cancelRequired)
	}
	id, err := s.parseItemID(rawID)
	if err != nil {
		return err
	}
	return s.cancel(ctx, id, repositories.Registrant{CPF: utils.OnlyDigits(req.CPF)})
}

// CancelAccount removes the enrollment of the signed-in account.
func (s *ActivityService) CancelAccount(ctx context.Context, who Identity, req models.EnrollRequest) error {
	rawID := s.ItemID(req)
	if rawID == "" {
		return apperrors.Validation(s.texts.idRequired)
	}
	id, err := s.parseItemID(rawID)
	if err != nil {
		return err
	}
	accountID := who.AccountID()
	return s.cancel(ctx, id, repositories.Registrant{AccountID: &accountID})
}

func (s *ActivityService) cancel(ctx context.Context, id primitive.ObjectID, who repositories.Registrant) error {
	deleted, err := s.enrollments.Delete(ctx, s.kind, id, who)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound(msgEnrollmentNotFound)
	}
	if err := s.activities.Release(ctx, id); err != nil {
		s.log.Error("failed to release seat", zap.String("item", id.Hex()), zap.Error(err))
	}
	return nil
}

// Enrollees lists who enrolled in an activity. Associates see their company's
// activities; administrators see house activities.
func (s *ActivityService) Enrollees(ctx context.Context, who Identity, rawID string) ([]models.Enrollee, error) {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return nil, apperrors.Validation(s.texts.idRequired)
	}
	id, err := s.parseItemID(rawID)
	if err != nil {
		return nil, err
	}

	activity, err := s.activities.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, s.texts.notFound)
	}
	switch v := who.(type) {
	case AssociateIdentity:
		if activity.CompanyID == nil || *activity.CompanyID != v.CompanyID {
			return nil, apperrors.Forbidden(s.texts.enrolleeForbidden)
		}
	case AdminIdentity:
		if activity.CompanyID != nil {
			return nil, apperrors.Forbidden(s.texts.enrolleeForbidden)
		}
	default:
		return nil, apperrors.Forbidden("Acesso negado. Apenas associados podem visualizar inscritos.")
	}

	rows, err := s.enrollments.ListByItem(ctx, s.kind, id)
	if err != nil {
		return nil, err
	}
	out := make([]models.Enrollee, 0, len(rows))
	for _, e := range rows {
		out = append(out, models.Enrollee{
			Origin:     e.Origin,
			Name:       e.Name,
			Email:      e.Email,
			CPF:        e.CPF,
			Phone:      e.Phone,
			EnrolledAt: e.EnrolledAt,
		})
	}
	return out, nil
}

func (s *ActivityService) parseItemID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation(s.texts.invalidID)
	}
	return id, nil
}
