package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/apperrors"
	"github.com/WenderAlvesSantos/api-aecac/metrics"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/repositories"
	"github.com/WenderAlvesSantos/api-aecac/utils"
)

const (
	msgRedeemUnknownCode = "Benefício não encontrado ou código inválido"
	msgRedeemInactive    = "Este benefício não está ativo no momento"
	msgRedeemExpired     = "Este benefício expirou"
	msgRedeemExhausted   = "Todas as unidades deste benefício foram resgatadas"
	msgRedeemedGuest     = "Este CPF já resgatou este benefício anteriormente"
	msgRedeemedAccount   = "Você já resgatou este benefício anteriormente"
	msgCPFInvalid        = "CPF inválido. Deve conter 11 dígitos."
)

// RedemptionService claims benefits by code. Capacity is reserved with a
// conditional increment before the record is written, and the unique
// indexes reject a second claim by the same identity.
type RedemptionService struct {
	benefits    BenefitStore
	redemptions RedemptionStore
	accounts    AccountStore
	log         *zap.Logger
	now         Clock
}

func NewRedemptionService(benefits BenefitStore, redemptions RedemptionStore, accounts AccountStore, log *zap.Logger) *RedemptionService {
	return &RedemptionService{
		benefits:    benefits,
		redemptions: redemptions,
		accounts:    accounts,
		log:         log,
		now:         time.Now,
	}
}

// RedeemGuest claims a benefit for an anonymous visitor identified by CPF.
func (s *RedemptionService) RedeemGuest(ctx context.Context, req models.RedeemRequest) (*models.RedeemResponse, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	if strings.TrimSpace(req.Code) == "" || name == "" || strings.TrimSpace(req.CPF) == "" || phone == "" {
		return nil, apperrors.Validation("Código, nome, CPF e telefone são obrigatórios")
	}
	cpf, ok := utils.NormalizeCPF(req.CPF)
	if !ok {
		return nil, apperrors.Validation(msgCPFInvalid)
	}
	record := &models.Redemption{Name: name, CPF: cpf, Phone: phone}
	return s.redeem(ctx, req.Code, record, models.OriginPublic, msgRedeemedGuest)
}

// RedeemAccount claims a benefit for the signed-in account. Name and email
// come from the account, not from the request.
func (s *RedemptionService) RedeemAccount(ctx context.Context, who Identity, req models.RedeemRequest) (*models.RedeemResponse, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, apperrors.Validation("Código do benefício é obrigatório")
	}

	name, email, err := contactOf(ctx, s.accounts, who)
	if err != nil {
		return nil, err
	}
	record := &models.Redemption{Name: name, Email: email}
	accountID := who.AccountID()
	record.AccountID = &accountID
	return s.redeem(ctx, req.Code, record, models.OriginPrivate, msgRedeemedAccount)
}

func (s *RedemptionService) redeem(ctx context.Context, rawCode string, record *models.Redemption, origin, duplicateMsg string) (*models.RedeemResponse, error) {
	code := utils.NormalizeCode(rawCode)
	benefit, err := s.benefits.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			metrics.Redemptions.WithLabelValues(origin, metrics.ResultRejected).Inc()
			return nil, apperrors.NotFound(msgRedeemUnknownCode)
		}
		return nil, err
	}

	now := s.now()
	if !benefit.Active {
		metrics.Redemptions.WithLabelValues(origin, metrics.ResultRejected).Inc()
		return nil, apperrors.Forbidden(msgRedeemInactive)
	}
	// A benefit stays redeemable through its whole expiry day.
	if benefit.ExpiresAt != nil && benefit.ExpiresAt.Before(utils.StartOfDay(now)) {
		metrics.Redemptions.WithLabelValues(origin, metrics.ResultRejected).Inc()
		return nil, apperrors.Forbidden(msgRedeemExpired)
	}

	reserved, err := s.benefits.Reserve(ctx, benefit.ID)
	if err != nil {
		return nil, err
	}
	if !reserved {
		metrics.Redemptions.WithLabelValues(origin, metrics.ResultExhausted).Inc()
		return nil, apperrors.Forbidden(msgRedeemExhausted)
	}

	record.BenefitID = benefit.ID
	record.Code = benefit.Code
	record.RedeemedAt = now
	if err := s.redemptions.Insert(ctx, record); err != nil {
		if releaseErr := s.benefits.Release(ctx, benefit.ID); releaseErr != nil {
			s.log.Error("failed to release benefit unit", zap.String("benefit", benefit.ID.Hex()), zap.Error(releaseErr))
		}
		if errors.Is(err, repositories.ErrDuplicate) {
			metrics.Redemptions.WithLabelValues(origin, metrics.ResultDuplicate).Inc()
			return nil, apperrors.Conflict(duplicateMsg)
		}
		metrics.Redemptions.WithLabelValues(origin, metrics.ResultError).Inc()
		return nil, err
	}

	if err := s.benefits.Touch(ctx, benefit.ID); err != nil {
		s.log.Warn("failed to touch benefit", zap.String("benefit", benefit.ID.Hex()), zap.Error(err))
	}
	metrics.Redemptions.WithLabelValues(origin, metrics.ResultOK).Inc()

	return &models.RedeemResponse{
		Message: "Benefício resgatado com sucesso!",
		Code:    benefit.Code,
		Benefit: models.BenefitTerms{
			Title:       benefit.Title,
			Description: benefit.Description,
			Discount:    benefit.Discount,
			Conditions:  benefit.Conditions,
		},
	}, nil
}

// ListForCompany returns every redemption of the associate's company
// benefits, account and guest ones merged, newest first.
func (s *RedemptionService) ListForCompany(ctx context.Context, who Identity) ([]models.RedemptionView, error) {
	associate, ok := who.(AssociateIdentity)
	if !ok {
		return nil, apperrors.Forbidden("Acesso negado. Apenas associados podem visualizar resgates.")
	}

	benefits, err := s.benefits.ListByCompany(ctx, associate.CompanyID)
	if err != nil {
		return nil, err
	}
	headlines := make(map[primitive.ObjectID]*models.BenefitHeadline, len(benefits))
	ids := make([]primitive.ObjectID, 0, len(benefits))
	for _, b := range benefits {
		ids = append(ids, b.ID)
		headlines[b.ID] = &models.BenefitHeadline{Title: b.Title, Code: b.Code}
	}

	accounts, guests, err := s.redemptions.ListByBenefits(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.RedemptionView, 0, len(accounts)+len(guests))
	for _, r := range accounts {
		views = append(views, models.RedemptionView{Redemption: r, Origin: models.OriginPrivate, Benefit: headlines[r.BenefitID]})
	}
	for _, r := range guests {
		views = append(views, models.RedemptionView{Redemption: r, Origin: models.OriginPublic, Benefit: headlines[r.BenefitID]})
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].RedeemedAt.After(views[j].RedeemedAt)
	})
	return views, nil
}
