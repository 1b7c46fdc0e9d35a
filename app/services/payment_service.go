package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/etuition/etuition-api/app/models"
	"github.com/etuition/etuition-api/app/repositories"
	"github.com/etuition/etuition-api/pkg/apperr"
	"github.com/etuition/etuition-api/pkg/cache"
	"github.com/etuition/etuition-api/pkg/logger"
	"github.com/etuition/etuition-api/pkg/metrics"
	"github.com/etuition/etuition-api/pkg/payment"
)

// Target names the kind of record a checkout session pays for.
type Target string

const (
	TargetTuition     Target = "tuition"
	TargetApplication Target = "application"
)

func (t Target) metadataKey() string {
	if t == TargetApplication {
		return payment.MetaApplicationID
	}
	return payment.MetaTuitionID
}

// PaymentConfig holds the checkout settings that come from config.
type PaymentConfig struct {
	Currency string
	SiteURL  string
}

func (c PaymentConfig) successURL() string {
	return c.SiteURL + "/dashboard/payment-success?session_id={CHECKOUT_SESSION_ID}"
}

func (c PaymentConfig) cancelURL() string {
	return c.SiteURL + "/dashboard/my-tuitions"
}

// SessionRequest is one hosted-checkout payment for one record.
type SessionRequest struct {
	Amount      int64
	Description string
	PayerEmail  string
	Target      Target
	RecordID    string
}

// Reconciliation is the outcome of a confirmed session.
type Reconciliation struct {
	Success     bool   `json:"success"`
	SessionID   string `json:"sessionId"`
	Target      Target `json:"target"`
	RecordID    string `json:"recordId"`
	AlreadyPaid bool   `json:"alreadyPaid"`
}

// PaymentService bridges local records and the payment processor. Record
// payment state is only ever changed by ConfirmSession, after the processor
// itself reports the session paid.
type PaymentService struct {
	processor    payment.Processor
	tuitions     repositories.TuitionRepository
	applications repositories.ApplicationRepository
	cfg          PaymentConfig
	now          func() time.Time
	forget       func(ctx context.Context, keys ...string)
}

func NewPaymentService(p payment.Processor, tuitions repositories.TuitionRepository, applications repositories.ApplicationRepository, store *cache.Store, cfg PaymentConfig) *PaymentService {
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	return &PaymentService{
		processor:    p,
		tuitions:     tuitions,
		applications: applications,
		cfg:          cfg,
		now:          time.Now,
		forget: func(ctx context.Context, keys ...string) {
			forget(ctx, store, keys...)
		},
	}
}

// CreateSession opens a single-item checkout and returns its redirect URL.
func (s *PaymentService) CreateSession(ctx context.Context, req SessionRequest) (string, error) {
	if req.Amount <= 0 {
		return "", apperr.BadRequest("Payment amount must be positive")
	}
	if req.RecordID == "" {
		return "", apperr.BadRequest("Payment must reference a record")
	}

	sess, err := s.processor.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		Amount:      req.Amount,
		Currency:    s.cfg.Currency,
		Description: req.Description,
		PayerEmail:  req.PayerEmail,
		Metadata:    map[string]string{req.Target.metadataKey(): req.RecordID},
		SuccessURL:  s.cfg.successURL(),
		CancelURL:   s.cfg.cancelURL(),
	})
	if err == nil && sess.URL == "" {
		err = errors.New("payment: session has no redirect url")
	}
	if err != nil {
		metrics.PaymentSessions.WithLabelValues(string(req.Target), "failed").Inc()
		return "", apperr.Upstream("Payment processor rejected the session", err)
	}

	metrics.PaymentSessions.WithLabelValues(string(req.Target), "created").Inc()
	logger.WithCtx(ctx).Info("checkout session created", "session", sess.ID, "target", req.Target, "record", req.RecordID)
	return sess.URL, nil
}

// CheckoutTuition starts payment for a tuition owned by caller. Amount and
// description come from the stored record.
func (s *PaymentService) CheckoutTuition(ctx context.Context, caller, id string) (string, error) {
	t, err := s.tuitions.FindByID(ctx, id)
	if err != nil {
		return "", classify(err)
	}
	if err := requireOwner(caller, t.CreatorEmail); err != nil {
		return "", err
	}
	if t.PaymentStatus == models.StatusPaid {
		return "", apperr.BadRequest("Tuition is already paid")
	}

	return s.CreateSession(ctx, SessionRequest{
		Amount:      t.Fee,
		Description: "Payment for: " + t.Subject,
		PayerEmail:  t.CreatorEmail,
		Target:      TargetTuition,
		RecordID:    t.ID.Hex(),
	})
}

// CheckoutApplication starts payment to a tutor for an application on one of
// caller's tuitions.
func (s *PaymentService) CheckoutApplication(ctx context.Context, caller, id string) (string, error) {
	a, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return "", classify(err)
	}
	if err := requireOwner(caller, a.CreatorEmail); err != nil {
		return "", err
	}
	if a.PaymentStatus == models.StatusPaid {
		return "", apperr.BadRequest("Application is already paid")
	}
	if a.ApplicationStatus == models.StatusRejected {
		return "", apperr.BadRequest("Application was rejected")
	}

	return s.CreateSession(ctx, SessionRequest{
		Amount:      a.Fee,
		Description: "Payment for: " + a.Subject,
		PayerEmail:  a.CreatorEmail,
		Target:      TargetApplication,
		RecordID:    a.ID.Hex(),
	})
}

// ConfirmSession re-fetches the session from the processor and, if it is
// paid, marks the referenced record paid in one conditional update. Calling
// it again for the same session changes nothing and reports AlreadyPaid.
func (s *PaymentService) ConfirmSession(ctx context.Context, sessionID string) (*Reconciliation, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperr.Invalid("Validation failed", map[string]string{"session_id": "cannot be blank"})
	}

	sess, err := s.processor.RetrieveSession(ctx, sessionID)
	if errors.Is(err, payment.ErrSessionNotFound) {
		return nil, apperr.Wrap(apperr.KindNotFound, "Payment session not found", err)
	}
	if err != nil {
		metrics.Reconciliations.WithLabelValues("unknown", "failed").Inc()
		return nil, apperr.Upstream("Could not verify payment session", err)
	}

	target, recordID, err := sessionTarget(sess)
	if err != nil {
		return nil, err
	}

	log := logger.WithCtx(ctx).With("session", sess.ID, "target", target, "record", recordID)
	if !sess.Paid {
		metrics.Reconciliations.WithLabelValues(string(target), "incomplete").Inc()
		log.Info("payment session not paid", "status", sess.PaymentStatus)
		return nil, apperr.PaymentIncomplete("Payment not completed")
	}

	res, err := s.markPaid(ctx, target, recordID)
	if err != nil {
		metrics.Reconciliations.WithLabelValues(string(target), "failed").Inc()
		return nil, classify(err)
	}

	rec := &Reconciliation{Success: true, SessionID: sess.ID, Target: target, RecordID: recordID}
	if res.MatchedCount == 0 {
		if err := s.exists(ctx, target, recordID); err != nil {
			metrics.Reconciliations.WithLabelValues(string(target), "failed").Inc()
			return nil, classify(err)
		}
		rec.AlreadyPaid = true
		metrics.Reconciliations.WithLabelValues(string(target), "already_paid").Inc()
		log.Info("payment already reconciled")
		return rec, nil
	}

	if target == TargetTuition {
		s.forget(ctx, KeyLatestTuitions)
	}
	metrics.Reconciliations.WithLabelValues(string(target), "paid").Inc()
	log.Info("payment reconciled")
	return rec, nil
}

// sessionTarget reads the single record reference from the session metadata.
func sessionTarget(sess *payment.Session) (Target, string, error) {
	tuitionID := sess.Metadata[payment.MetaTuitionID]
	applicationID := sess.Metadata[payment.MetaApplicationID]

	switch {
	case tuitionID != "" && applicationID == "":
		return TargetTuition, tuitionID, nil
	case applicationID != "" && tuitionID == "":
		return TargetApplication, applicationID, nil
	default:
		return "", "", apperr.BadRequest("Payment session does not reference exactly one record")
	}
}

func (s *PaymentService) markPaid(ctx context.Context, target Target, id string) (repositories.UpdateResult, error) {
	at := s.now().UTC()
	if target == TargetApplication {
		return s.applications.MarkPaid(ctx, id, at)
	}
	return s.tuitions.MarkPaid(ctx, id, at)
}

func (s *PaymentService) exists(ctx context.Context, target Target, id string) error {
	var err error
	if target == TargetApplication {
		_, err = s.applications.FindByID(ctx, id)
	} else {
		_, err = s.tuitions.FindByID(ctx, id)
	}
	return err
}
