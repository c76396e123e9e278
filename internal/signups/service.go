package signups

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/santai-app/santai-backend/internal/agreements"
	"github.com/santai-app/santai-backend/internal/notifications"
	"github.com/santai-app/santai-backend/internal/payments"
	"github.com/santai-app/santai-backend/internal/providers"
	"github.com/santai-app/santai-backend/internal/users"
	"github.com/santai-app/santai-backend/pkg/config"
	"github.com/santai-app/santai-backend/pkg/db"
	"github.com/santai-app/santai-backend/pkg/db/models"
	"github.com/santai-app/santai-backend/pkg/enums"
	pkgerrors "github.com/santai-app/santai-backend/pkg/errors"
	"github.com/santai-app/santai-backend/pkg/logger"
	"github.com/santai-app/santai-backend/pkg/pagination"
	"github.com/santai-app/santai-backend/pkg/security"
)

// ReasonDeadlineMissed is stamped on signups deactivated by the sweep.
const ReasonDeadlineMissed = "payment_deadline_missed"

// Service drives the provider membership signup workflow from plan
// selection through activation or deactivation.
type Service interface {
	Initialize(ctx context.Context, input InitializeInput) (*SignupDTO, error)
	AcceptTerms(ctx context.Context, signupID uuid.UUID, input AcceptTermsInput) (*SignupDTO, error)
	SelectPortal(ctx context.Context, signupID uuid.UUID, portal enums.PortalKind) (*SignupDTO, error)
	CreateAccount(ctx context.Context, signupID uuid.UUID, input CreateAccountInput) (*SignupDTO, error)
	CompleteProfile(ctx context.Context, signupID uuid.UUID, input CompleteProfileInput) (*SignupDTO, error)
	SubmitGoLive(ctx context.Context, signupID uuid.UUID) (*SignupDTO, error)
	UploadPaymentProof(ctx context.Context, signupID uuid.UUID, input UploadProofInput) (*SignupDTO, error)
	ApprovePayment(ctx context.Context, submissionID, adminID uuid.UUID) error
	RejectPayment(ctx context.Context, submissionID, adminID uuid.UUID, reason string) error
	DeactivateAccount(ctx context.Context, signupID uuid.UUID, reason string) error
	CheckPaymentDeadlines(ctx context.Context) (int, error)
	Get(ctx context.Context, signupID uuid.UUID) (*SignupDTO, error)
	RemainingTime(ctx context.Context, signupID uuid.UUID) (*CountdownDTO, error)
	PendingPayments(ctx context.Context, params pagination.Params) (*PendingPaymentsResult, error)
	Submission(ctx context.Context, submissionID uuid.UUID) (*SubmissionDTO, error)
	AdminDetail(ctx context.Context, signupID uuid.UUID) (*AdminSignupDetail, error)
	ListByStatus(ctx context.Context, status enums.SignupStatus, params pagination.Params) (*SignupListResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type signupRepository interface {
	Create(ctx context.Context, signup *models.MembershipSignup) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.MembershipSignup, error)
	Transition(ctx context.Context, id uuid.UUID, from []enums.SignupStatus, values map[string]any) (int64, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	ListExpiredAwaitingPayment(ctx context.Context, now time.Time, limit int) ([]models.MembershipSignup, error)
	ListByStatus(ctx context.Context, status enums.SignupStatus, limit int, cursor *pagination.Cursor) ([]models.MembershipSignup, *pagination.Cursor, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

type providerRepository interface {
	Create(ctx context.Context, portal enums.PortalKind, profile *models.ProviderProfile) error
	CompleteProfile(ctx context.Context, portal enums.PortalKind, id uuid.UUID, update providers.ProfileUpdate, now time.Time) (int64, error)
	GoLive(ctx context.Context, portal enums.PortalKind, id uuid.UUID, deadline, now time.Time) (int64, error)
	SetPaymentStatus(ctx context.Context, portal enums.PortalKind, id uuid.UUID, status enums.PaymentStatus, now time.Time) (int64, error)
	Activate(ctx context.Context, portal enums.PortalKind, id uuid.UUID, now time.Time) (int64, error)
	Deactivate(ctx context.Context, portal enums.PortalKind, id uuid.UUID, now time.Time) (int64, error)
}

type paymentRepository interface {
	Create(ctx context.Context, submission *models.PaymentSubmission) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentSubmission, error)
	ListBySignup(ctx context.Context, signupID uuid.UUID) ([]models.PaymentSubmission, error)
	ListPending(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.PaymentSubmission, *pagination.Cursor, error)
	Review(ctx context.Context, id uuid.UUID, verdict enums.ReviewStatus, reviewedBy uuid.UUID, notes *string, now time.Time) (int64, error)
	ExpirePendingForSignup(ctx context.Context, signupID uuid.UUID, now time.Time) (int64, error)
}

type agreementRepository interface {
	Create(ctx context.Context, agreement *models.MembershipAgreement) error
	ListBySignup(ctx context.Context, signupID uuid.UUID) ([]models.MembershipAgreement, error)
}

type adminNotifier interface {
	Emit(ctx context.Context, input notifications.EmitInput) error
}

// ServiceParams packages the dependencies of the signup workflow. The
// factories exist so tests can substitute repositories; production
// callers only set DB, Logger, and the config blocks.
type ServiceParams struct {
	DB             *db.Client
	Logger         *logger.Logger
	Membership     config.MembershipConfig
	PasswordConfig config.PasswordConfig

	TxRunner             txRunner
	Notifier             adminNotifier
	SignupRepoFactory    func(tx *gorm.DB) signupRepository
	UserRepoFactory      func(tx *gorm.DB) userRepository
	ProviderRepoFactory  func(tx *gorm.DB) providerRepository
	PaymentRepoFactory   func(tx *gorm.DB) paymentRepository
	AgreementRepoFactory func(tx *gorm.DB) agreementRepository
	Now                  func() time.Time
}

type service struct {
	tx          txRunner
	logg        *logger.Logger
	membership  config.MembershipConfig
	passwordCfg config.PasswordConfig
	notifier    adminNotifier

	signupRepo    func(tx *gorm.DB) signupRepository
	userRepo      func(tx *gorm.DB) userRepository
	providerRepo  func(tx *gorm.DB) providerRepository
	paymentRepo   func(tx *gorm.DB) paymentRepository
	agreementRepo func(tx *gorm.DB) agreementRepository
	now           func() time.Time
}

// NewService wires the signup workflow dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil && params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	if params.Membership.PaymentWindow <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment window must be positive")
	}

	runner := params.TxRunner
	if runner == nil {
		runner = params.DB
	}

	s := &service{
		tx:            runner,
		logg:          params.Logger,
		membership:    params.Membership,
		passwordCfg:   params.PasswordConfig,
		notifier:      params.Notifier,
		signupRepo:    params.SignupRepoFactory,
		userRepo:      params.UserRepoFactory,
		providerRepo:  params.ProviderRepoFactory,
		paymentRepo:   params.PaymentRepoFactory,
		agreementRepo: params.AgreementRepoFactory,
		now:           params.Now,
	}
	if s.signupRepo == nil {
		s.signupRepo = func(tx *gorm.DB) signupRepository { return NewRepository(tx) }
	}
	if s.userRepo == nil {
		s.userRepo = func(tx *gorm.DB) userRepository { return users.NewRepository(tx) }
	}
	if s.providerRepo == nil {
		s.providerRepo = func(tx *gorm.DB) providerRepository { return providers.NewRepository(tx) }
	}
	if s.paymentRepo == nil {
		s.paymentRepo = func(tx *gorm.DB) paymentRepository { return payments.NewRepository(tx) }
	}
	if s.agreementRepo == nil {
		s.agreementRepo = func(tx *gorm.DB) agreementRepository { return agreements.NewRepository(tx) }
	}
	if s.notifier == nil {
		if params.DB == nil {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "admin notifier required")
		}
		notifier, err := notifications.NewService(notifications.NewRepository(params.DB.DB()))
		if err != nil {
			return nil, err
		}
		s.notifier = notifier
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// InitializeInput starts a signup at plan selection.
type InitializeInput struct {
	Plan      enums.PlanKind `json:"plan" validate:"required"`
	ClientIP  string         `json:"client_ip,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
}

// AcceptTermsInput carries the audit context of a terms acceptance.
type AcceptTermsInput struct {
	ClientIP  string `json:"client_ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// CreateAccountInput provisions the provider's credentials.
type CreateAccountInput struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Phone    *string `json:"phone,omitempty"`
}

// CompleteProfileInput carries the public profile details.
type CompleteProfileInput struct {
	PhotoURL    *string `json:"photo_url,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	City        *string `json:"city,omitempty"`
	Address     *string `json:"address,omitempty"`
	MapsURL     *string `json:"maps_url,omitempty"`
	Instagram   *string `json:"instagram,omitempty"`
	ServiceArea *string `json:"service_area,omitempty"`
}

// UploadProofInput records an uploaded proof object against the signup.
type UploadProofInput struct {
	ProofURL    string  `json:"proof_url" validate:"required,url"`
	Method      *string `json:"method,omitempty"`
	BankName    *string `json:"bank_name,omitempty"`
	AccountName *string `json:"account_name,omitempty"`
}

// PendingPaymentsResult wraps the admin review queue page.
type PendingPaymentsResult struct {
	Items  []SubmissionDTO `json:"items"`
	Cursor string          `json:"cursor"`
}

// AdminSignupDetail bundles a signup with its submission history and
// terms acceptance trail for the admin detail view.
type AdminSignupDetail struct {
	Signup      SignupDTO       `json:"signup"`
	Submissions []SubmissionDTO `json:"submissions"`
	Agreements  []AgreementDTO  `json:"agreements"`
}

// SignupListResult wraps one page of a status-filtered signup listing.
type SignupListResult struct {
	Items  []SignupDTO `json:"items"`
	Cursor string      `json:"cursor"`
}

func (s *service) Initialize(ctx context.Context, input InitializeInput) (*SignupDTO, error) {
	if !input.Plan.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid plan kind")
	}

	now := s.now().UTC()
	signup := &models.MembershipSignup{
		PlanKind:       input.Plan,
		PlanSelectedAt: now,
		PaymentAmount:  s.membership.PlanFee(input.Plan == enums.PlanKindPlus),
		Status:         enums.SignupStatusPlanSelected,
	}
	if ip := strings.TrimSpace(input.ClientIP); ip != "" {
		signup.ClientIP = &ip
	}
	if ua := strings.TrimSpace(input.UserAgent); ua != "" {
		signup.UserAgent = &ua
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.signupRepo(tx).Create(ctx, signup); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create signup")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithSignupID(ctx, signup.ID.String()), "signup initialized")
	return FromModel(signup), nil
}

func (s *service) AcceptTerms(ctx context.Context, signupID uuid.UUID, input AcceptTermsInput) (*SignupDTO, error) {
	if signupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "signup id required")
	}

	now := s.now().UTC()
	var updated *models.MembershipSignup

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.signupRepo(tx)

		values := map[string]any{
			"terms_accepted":    true,
			"terms_accepted_at": now,
			"terms_version":     s.membership.TermsVersion,
			"status":            enums.SignupStatusTermsAccepted,
			"updated_at":        now,
		}
		if ip := strings.TrimSpace(input.ClientIP); ip != "" {
			values["client_ip"] = ip
		}
		if ua := strings.TrimSpace(input.UserAgent); ua != "" {
			values["user_agent"] = ua
		}

		from := []enums.SignupStatus{enums.SignupStatusPlanSelected, enums.SignupStatusTermsAccepted}
		rows, err := repo.Transition(ctx, signupID, from, values)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept terms")
		}
		if rows == 0 {
			return s.transitionFailure(ctx, repo, signupID, "terms can only be accepted after plan selection")
		}

		// Each acceptance appends its own audit row.
		agreement := &models.MembershipAgreement{
			SignupID:   signupID,
			Version:    s.membership.TermsVersion,
			Clauses:    pq.StringArray(agreements.StandardClauses()),
			AcceptedAt: now,
		}
		if ip := strings.TrimSpace(input.ClientIP); ip != "" {
			agreement.ClientIP = &ip
		}
		if ua := strings.TrimSpace(input.UserAgent); ua != "" {
			agreement.UserAgent = &ua
		}
		if err := s.agreementRepo(tx).Create(ctx, agreement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record agreement")
		}

		updated, err = repo.FindByID(ctx, signupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload signup")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithSignupID(ctx, signupID.String()), "terms accepted")
	return FromModel(updated), nil
}

func (s *service) SelectPortal(ctx context.Context, signupID uuid.UUID, portal enums.PortalKind) (*SignupDTO, error) {
	if signupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "signup id required")
	}
	if !portal.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid portal kind")
	}

	now := s.now().UTC()
	var updated *models.MembershipSignup

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.signupRepo(tx)

		from := []enums.SignupStatus{enums.SignupStatusTermsAccepted, enums.SignupStatusPortalSelected}
		rows, err := repo.Transition(ctx, signupID, from, map[string]any{
			"portal_kind":        portal,
			"portal_selected_at": now,
			"status":             enums.SignupStatusPortalSelected,
			"updated_at":         now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "select portal")
		}
		if rows == 0 {
			return s.transitionFailure(ctx, repo, signupID, "portal can only be selected after accepting terms")
		}

		updated, err = repo.FindByID(ctx, signupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload signup")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) CreateAccount(ctx context.Context, signupID uuid.UUID, input CreateAccountInput) (*SignupDTO, error) {
	if signupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "signup id required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	passwordHash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	now := s.now().UTC()
	var updated *models.MembershipSignup

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.signupRepo(tx)

		signup, err := s.loadForUpdate(ctx, repo, signupID)
		if err != nil {
			return err
		}
		if signup.Status != enums.SignupStatusPortalSelected {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "account can only be created after selecting a portal")
		}
		if signup.PortalKind == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "signup has no portal")
		}

		userRepo := s.userRepo(tx)
		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			Name:         name,
			Phone:        input.Phone,
			Role:         enums.ActorRoleProvider,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "idx_users_email") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}

		profile := &models.ProviderProfile{
			ID:            uuid.New(),
			UserID:        user.ID,
			SignupID:      signup.ID,
			Name:          name,
			Email:         email,
			Phone:         input.Phone,
			PlanKind:      signup.PlanKind,
			Status:        enums.ProviderStatusPendingProfile,
			PaymentStatus: enums.PaymentStatusPending,
		}
		if err := s.providerRepo(tx).Create(ctx, *signup.PortalKind, profile); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create provider profile")
		}

		rows, err := repo.Transition(ctx, signupID,
			[]enums.SignupStatus{enums.SignupStatusPortalSelected},
			map[string]any{
				"user_id":             user.ID,
				"email":               email,
				"provider_profile_id": profile.ID,
				"account_created_at":  now,
				"status":              enums.SignupStatusAccountCreated,
				"updated_at":          now,
			})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link account")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "signup changed while creating account")
		}

		updated, err = repo.FindByID(ctx, signupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload signup")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithSignupID(ctx, signupID.String()), "provider account created")
	return FromModel(updated), nil
}

func (s *service) CompleteProfile(ctx context.Context, signupID uuid.UUID, input CompleteProfileInput) (*SignupDTO, error) {
	if signupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "signup id required")
	}

	now := s.now().UTC()
	var updated *models.MembershipSignup

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.signupRepo(tx)

		signup, err := s.loadForUpdate(ctx, repo, signupID)
		if err != nil {
			return err
		}
		if signup.PortalKind == nil || signup.ProviderProfileID == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "signup has no provider account")
		}

		from := []enums.SignupStatus{enums.SignupStatusAccountCreated, enums.SignupStatusProfileUploaded}
		rows, err := repo.Transition(ctx, signupID, from, map[string]any{
			"profile_completed":    true,
			"profile_completed_at": now,
			"status":               enums.SignupStatusProfileUploaded,
			"updated_at":           now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete profile")
		}
		if rows == 0 {
			return s.transitionFailure(ctx, repo, signupID, "profile can only be completed after account creation")
		}

		update := providers.ProfileUpdate{
			PhotoURL:    input.PhotoURL,
			Bio:         input.Bio,
			City:        input.City,
			Address:     input.Address,
			MapsURL:     input.MapsURL,
			Instagram:   input.Instagram,
			ServiceArea: input.ServiceArea,
		}
		if _, err := s.providerRepo(tx).CompleteProfile(ctx, *signup.PortalKind, *signup.ProviderProfileID, update, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update provider profile")
		}

		updated, err = repo.FindByID(ctx, signupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload signup")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FromModel(updated), nil
}

func (s *service) SubmitGoLive(ctx context.Context, signupID uuid.UUID) (*SignupDTO, error) {
	if signupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "signup id required")
	}

	now := s.now().UTC()
	deadline := now.Add(s.membership.PaymentWindow)
	var updated *models.MembershipSignup
	var emit *notifications.EmitInput

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.signupRepo(tx)

		signup, err := s.loadForUpdate(ctx, repo, signupID)
		if err != nil {
			return err
		}
		if signup.PortalKind == nil || signup.ProviderProfileID == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "signup has no provider account")
		}

		rows, err := repo.Transition(ctx, signupID,
			[]enums.SignupStatus{enums.SignupStatusProfileUploaded},
			map[string]any{
				"go_live_submitted_at": now,
				"payment_deadline":     deadline,
				"is_live":              true,
				"status":               enums.SignupStatusAwaitingPayment,
				"updated_at":           now,
			})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit go live")
		}
		if rows == 0 {
			return s.transitionFailure(ctx, repo, signupID, "go-live requires a completed profile")
		}

		if _, err := s.providerRepo(tx).GoLive(ctx, *signup.PortalKind, *signup.ProviderProfileID, deadline, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flip provider live")
		}

		emit = &notifications.EmitInput{
			Type:     enums.NotificationTypeNewGoLive,
			SignupID: &signup.ID,
			Message:  fmt.Sprintf("New %s provider went live on the %s plan. Payment due by %s.", signup.PortalKind.Label(), signup.PlanKind, deadline.Format(time.RFC3339)),
			Link:     fmt.Sprintf("/admin/signups/%s", signup.ID),
		}

		updated, err = repo.FindByID(ctx, signupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload signup")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emitAdminNotification(ctx, emit)

	s.logg.Info(s.logg.WithSignupID(ctx, signupID.String()), "go-live submitted, payment window open")
	return FromModel(updated), nil
}

func (s *service) UploadPaymentProof(ctx context.Context, signupID uuid.UUID, input UploadProofInput) (*SignupDTO, error) {
	if signupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "signup id required")
	}
	proofURL := strings.TrimSpace(input.ProofURL)
	if proofURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "proof url required")
	}

	now := s.now().UTC()
	var updated *models.MembershipSignup
	var emit *notifications.EmitInput

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.signupRepo(tx)

		signup, err := s.loadForUpdate(ctx, repo, signupID)
		if err != nil {
			return err
		}
		if signup.Status != enums.SignupStatusAwaitingPayment && signup.Status != enums.SignupStatusPaymentPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "no payment is due for this signup")
		}
		// Deadline check happens before any write.
		if signup.PaymentDeadline != nil && now.After(*signup.PaymentDeadline) {
			return pkgerrors.New(pkgerrors.CodeDeadlineExceeded, "payment window has expired").
				WithDetails(map[string]any{"deadline": signup.PaymentDeadline})
		}

		// The submission carries its own copy of the signup linkage and
		// deadline so the review queue and the expiry sweep never have
		// to join back onto a row that may transition underneath them.
		submission := &models.PaymentSubmission{
			SignupID:          signup.ID,
			UserID:            signup.UserID,
			ProviderProfileID: signup.ProviderProfileID,
			ProviderKind:      signup.PortalKind,
			PlanKind:          signup.PlanKind,
			ProofURL:          proofURL,
			Amount:            signup.PaymentAmount,
			Method:            input.Method,
			BankName:          input.BankName,
			AccountName:       input.AccountName,
			UploadedAt:        now,
			Deadline:          signup.PaymentDeadline,
			ReviewStatus:      enums.ReviewStatusPending,
		}
		if err := s.paymentRepo(tx).Create(ctx, submission); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record submission")
		}

		rows, err := repo.Transition(ctx, signupID,
			[]enums.SignupStatus{enums.SignupStatusAwaitingPayment, enums.SignupStatusPaymentPending},
			map[string]any{
				"payment_proof_url":         proofURL,
				"payment_proof_uploaded_at": now,
				"payment_method":            input.Method,
				"status":                    enums.SignupStatusPaymentPending,
				"updated_at":                now,
			})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark payment pending")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "signup changed while uploading proof")
		}

		if signup.PortalKind != nil && signup.ProviderProfileID != nil {
			if _, err := s.providerRepo(tx).SetPaymentStatus(ctx, *signup.PortalKind, *signup.ProviderProfileID, enums.PaymentStatusPendingVerification, now); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update provider payment status")
			}
		}

		emit = &notifications.EmitInput{
			Type:     enums.NotificationTypePaymentProofUploaded,
			SignupID: &signup.ID,
			Message:  fmt.Sprintf("Payment proof uploaded for signup %s (%s IDR).", signup.ID, signup.PaymentAmount.StringFixed(0)),
			Link:     "/admin/payments/pending",
		}

		updated, err = repo.FindByID(ctx, signupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload signup")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emitAdminNotification(ctx, emit)

	s.logg.Info(s.logg.WithSignupID(ctx, signupID.String()), "payment proof uploaded")
	return FromModel(updated), nil
}

func (s *service) ApprovePayment(ctx context.Context, submissionID, adminID uuid.UUID) error {
	if submissionID == uuid.Nil || adminID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "submission id and admin id required")
	}

	now := s.now().UTC()

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.signupRepo(tx)
		paymentRepo := s.paymentRepo(tx)

		submission, err := paymentRepo.FindByID(ctx, submissionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submission")
		}
		// Re-approving an approved submission is a no-op.
		if submission.ReviewStatus == enums.ReviewStatusApproved {
			return nil
		}

		rows, err := paymentRepo.Review(ctx, submissionID, enums.ReviewStatusApproved, adminID, nil, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve submission")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "submission is no longer pending")
		}

		rows, err = repo.Transition(ctx, submission.SignupID,
			[]enums.SignupStatus{enums.SignupStatusPaymentPending, enums.SignupStatusAwaitingPayment},
			map[string]any{
				"status":     enums.SignupStatusActive,
				"is_live":    true,
				"updated_at": now,
			})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate signup")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "signup is not awaiting verification")
		}

		signup, err := repo.FindByID(ctx, submission.SignupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload signup")
		}
		if signup.PortalKind != nil && signup.ProviderProfileID != nil {
			if _, err := s.providerRepo(tx).Activate(ctx, *signup.PortalKind, *signup.ProviderProfileID, now); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate provider")
			}
		}

		s.logg.Info(s.logg.WithSignupID(ctx, signup.ID.String()), "payment approved, provider active")
		return nil
	})
}

func (s *service) RejectPayment(ctx context.Context, submissionID, adminID uuid.UUID, reason string) error {
	if submissionID == uuid.Nil || adminID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "submission id and admin id required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "rejection reason required")
	}

	now := s.now().UTC()

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo(tx)

		submission, err := paymentRepo.FindByID(ctx, submissionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submission")
		}
		if submission.ReviewStatus == enums.ReviewStatusRejected {
			return nil
		}

		// The signup stays payment_pending: the provider can re-upload
		// while the window holds, and the sweep handles the rest.
		rows, err := paymentRepo.Review(ctx, submissionID, enums.ReviewStatusRejected, adminID, &reason, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject submission")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "submission is no longer pending")
		}

		s.logg.Info(s.logg.WithSignupID(ctx, submission.SignupID.String()), "payment proof rejected")
		return nil
	})
}

func (s *service) DeactivateAccount(ctx context.Context, signupID uuid.UUID, reason string) error {
	if signupID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "signup id required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "deactivation reason required")
	}

	return s.deactivate(ctx, signupID, reason, deactivatableStatuses())
}

// CheckPaymentDeadlines deactivates every signup whose payment window
// lapsed. Safe to run concurrently: each row transitions at most once.
func (s *service) CheckPaymentDeadlines(ctx context.Context) (int, error) {
	now := s.now().UTC()

	var expired []models.MembershipSignup
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		expired, err = s.signupRepo(tx).ListExpiredAwaitingPayment(ctx, now, 0)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list expired signups")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	deactivated := 0
	for _, signup := range expired {
		err := s.deactivate(ctx, signup.ID, ReasonDeadlineMissed, []enums.SignupStatus{enums.SignupStatusAwaitingPayment})
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
				// Lost the race to an upload or another sweep.
				continue
			}
			return deactivated, err
		}
		deactivated++
	}
	return deactivated, nil
}

func (s *service) deactivate(ctx context.Context, signupID uuid.UUID, reason string, from []enums.SignupStatus) error {
	now := s.now().UTC()
	var emit *notifications.EmitInput

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.signupRepo(tx)

		signup, err := s.loadForUpdate(ctx, repo, signupID)
		if err != nil {
			return err
		}
		if signup.Status == enums.SignupStatusDeactivated {
			return nil
		}

		rows, err := repo.Transition(ctx, signupID, from, map[string]any{
			"status":              enums.SignupStatusDeactivated,
			"is_live":             false,
			"deactivated_at":      now,
			"deactivation_reason": reason,
			"updated_at":          now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate signup")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "signup cannot be deactivated from its current status")
		}

		if signup.PortalKind != nil && signup.ProviderProfileID != nil {
			if _, err := s.providerRepo(tx).Deactivate(ctx, *signup.PortalKind, *signup.ProviderProfileID, now); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate provider")
			}
		}

		if _, err := s.paymentRepo(tx).ExpirePendingForSignup(ctx, signupID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire pending submissions")
		}

		emit = &notifications.EmitInput{
			Type:     enums.NotificationTypeAccountDeactivated,
			SignupID: &signup.ID,
			Message:  fmt.Sprintf("Signup %s was deactivated: %s.", signup.ID, reason),
			Link:     fmt.Sprintf("/admin/signups/%s", signup.ID),
		}

		s.logg.Info(s.logg.WithSignupID(ctx, signupID.String()), "signup deactivated")
		return nil
	})
	if err != nil {
		return err
	}
	s.emitAdminNotification(ctx, emit)
	return nil
}

func (s *service) Get(ctx context.Context, signupID uuid.UUID) (*SignupDTO, error) {
	if signupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "signup id required")
	}

	var signup *models.MembershipSignup
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		signup, err = s.loadForUpdate(ctx, s.signupRepo(tx), signupID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return FromModel(signup), nil
}

func (s *service) RemainingTime(ctx context.Context, signupID uuid.UUID) (*CountdownDTO, error) {
	signup, err := s.Get(ctx, signupID)
	if err != nil {
		return nil, err
	}

	countdown := &CountdownDTO{SignupID: signup.ID, Deadline: signup.PaymentDeadline}
	if signup.PaymentDeadline == nil {
		return countdown, nil
	}

	remaining := signup.PaymentDeadline.Sub(s.now().UTC())
	if remaining <= 0 {
		countdown.Expired = true
		return countdown, nil
	}
	countdown.RemainingSeconds = int64(remaining.Seconds())
	return countdown, nil
}

func (s *service) PendingPayments(ctx context.Context, params pagination.Params) (*PendingPaymentsResult, error) {
	var cursor *pagination.Cursor
	if params.Cursor != "" {
		parsed, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		cursor = parsed
	}

	var rows []models.PaymentSubmission
	var next *pagination.Cursor
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		rows, next, err = s.paymentRepo(tx).ListPending(ctx, params.Limit, cursor)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending payments")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	items := make([]SubmissionDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *SubmissionFromModel(&rows[i]))
	}

	result := &PendingPaymentsResult{Items: items}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) Submission(ctx context.Context, submissionID uuid.UUID) (*SubmissionDTO, error) {
	if submissionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submission id required")
	}

	var submission *models.PaymentSubmission
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		submission, err = s.paymentRepo(tx).FindByID(ctx, submissionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submission")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return SubmissionFromModel(submission), nil
}

func (s *service) AdminDetail(ctx context.Context, signupID uuid.UUID) (*AdminSignupDetail, error) {
	if signupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "signup id required")
	}

	var detail *AdminSignupDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		signup, err := s.loadForUpdate(ctx, s.signupRepo(tx), signupID)
		if err != nil {
			return err
		}
		submissions, err := s.paymentRepo(tx).ListBySignup(ctx, signupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list submissions")
		}
		accepted, err := s.agreementRepo(tx).ListBySignup(ctx, signupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list agreements")
		}

		detail = &AdminSignupDetail{
			Signup:      *FromModel(signup),
			Submissions: make([]SubmissionDTO, 0, len(submissions)),
			Agreements:  make([]AgreementDTO, 0, len(accepted)),
		}
		for i := range submissions {
			detail.Submissions = append(detail.Submissions, *SubmissionFromModel(&submissions[i]))
		}
		for i := range accepted {
			detail.Agreements = append(detail.Agreements, *AgreementFromModel(&accepted[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *service) ListByStatus(ctx context.Context, status enums.SignupStatus, params pagination.Params) (*SignupListResult, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid signup status")
	}

	var cursor *pagination.Cursor
	if params.Cursor != "" {
		parsed, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		cursor = parsed
	}

	var rows []models.MembershipSignup
	var next *pagination.Cursor
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		rows, next, err = s.signupRepo(tx).ListByStatus(ctx, status, params.Limit, cursor)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list signups")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &SignupListResult{Items: make([]SignupDTO, 0, len(rows))}
	for i := range rows {
		result.Items = append(result.Items, *FromModel(&rows[i]))
	}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

// emitAdminNotification stores a notification after the owning
// transaction has committed. Failures are logged and swallowed: the
// admin queue is best-effort and must never undo a workflow step.
func (s *service) emitAdminNotification(ctx context.Context, input *notifications.EmitInput) {
	if input == nil {
		return
	}
	if err := s.notifier.Emit(ctx, *input); err != nil {
		s.logg.Error(ctx, "admin notification emit failed", err)
	}
}

// loadForUpdate fetches a signup inside a transaction, mapping a
// missing row onto NotFound.
func (s *service) loadForUpdate(ctx context.Context, repo signupRepository, signupID uuid.UUID) (*models.MembershipSignup, error) {
	signup, err := repo.FindByID(ctx, signupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "signup not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load signup")
	}
	return signup, nil
}

// transitionFailure inspects why a guarded update matched zero rows.
func (s *service) transitionFailure(ctx context.Context, repo signupRepository, signupID uuid.UUID, conflictMsg string) error {
	exists, err := repo.Exists(ctx, signupID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check signup")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "signup not found")
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, conflictMsg)
}

func deactivatableStatuses() []enums.SignupStatus {
	return []enums.SignupStatus{
		enums.SignupStatusPlanSelected,
		enums.SignupStatusTermsAccepted,
		enums.SignupStatusPortalSelected,
		enums.SignupStatusAccountCreated,
		enums.SignupStatusProfileUploaded,
		enums.SignupStatusAwaitingPayment,
		enums.SignupStatusPaymentPending,
	}
}
