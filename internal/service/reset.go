package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/undersea/storefront/internal/hash"
	"github.com/undersea/storefront/internal/logging"
	"github.com/undersea/storefront/internal/models"
	"github.com/undersea/storefront/internal/repo"
)

type Mailer interface {
	Send(ctx context.Context, toEmail, subject, htmlContent string) error
}

type PasswordResetService struct {
	Users  repo.UserRepository
	Resets repo.ResetRepository

	Mail        Mailer // nil disables delivery, issuance still answers ok
	FrontendURL string
	TokenTTL    time.Duration

	now func() time.Time
}

func NewPasswordResetService(db *gorm.DB, mailer Mailer, frontendURL string, ttl time.Duration) *PasswordResetService {
	return &PasswordResetService{
		Users:       repo.NewUserRepository(db),
		Resets:      repo.NewResetRepository(db),
		Mail:        mailer,
		FrontendURL: frontendURL,
		TokenTTL:    ttl,
		now:         time.Now,
	}
}

const resetSubject = "Restablecimiento de contraseña"

func resetEmailHTML(resetURL string, expiresMinutes int) string {
	return fmt.Sprintf(`
      <div style="font-family:Arial,sans-serif;max-width:560px;margin:0 auto;line-height:1.5;">
        <h2 style="margin:0 0 12px;">Restablecer contraseña</h2>
        <p style="margin:0 0 16px;">Recibimos una solicitud para restablecer tu contraseña. Si no fuiste tú, puedes ignorar este correo.</p>
        <p style="margin:0 0 16px;">
          <a href="%s" style="background:#111;color:#fff;padding:12px 18px;border-radius:6px;text-decoration:none;display:inline-block;">
            Restablecer contraseña
          </a>
        </p>
        <p style="margin:0;color:#666;font-size:12px;">Este enlace expira en %d minutos.</p>
      </div>`, resetURL, expiresMinutes)
}

// Request issues a reset token for the address. Every internal outcome
// collapses into the same nil return: whether the address is known,
// whether the insert worked and whether the mail went out must be
// indistinguishable to the caller, or the endpoint becomes an account
// enumeration oracle. Only missing configuration surfaces as an error.
func (s *PasswordResetService) Request(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "reset.request")

	if s.FrontendURL == "" {
		return ErrNotConfigured
	}

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("reset_request_lookup_error", "error", err)
		}
		return nil
	}

	secret, tokenHash, err := newResetToken()
	if err != nil {
		l.Error("reset_request_token_error", "error", err)
		return nil
	}

	expiresAt := s.now().Add(s.TokenTTL).UTC()
	reset := &models.PasswordReset{
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		Used:      false,
	}
	if err := s.Resets.Create(ctx, reset); err != nil {
		l.Error("reset_request_insert_error", "error", err)
		return nil
	}

	if s.Mail == nil {
		l.Error("reset_request_mail_skipped", "reason", "mail provider not configured")
		return nil
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.FrontendURL, secret)
	minutes := int(s.TokenTTL / time.Minute)
	if err := s.Mail.Send(ctx, email, resetSubject, resetEmailHTML(resetURL, minutes)); err != nil {
		l.Error("reset_request_mail_error", "error", err)
		return nil
	}

	l.Info("reset_request_sent", "user_id", user.ID)
	return nil
}

// Reset redeems a raw token secret and sets the new password. A token
// that is unknown, already used or expired always fails with the same
// ErrInvalidToken; which of the three happened is never revealed.
func (s *PasswordResetService) Reset(ctx context.Context, token, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "reset.redeem")

	row, err := s.Resets.FindByHash(ctx, hashResetToken(token))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("reset_redeem_lookup_error", "error", err)
		}
		return ErrInvalidToken
	}
	if row.Used || !row.ExpiresAt.After(s.now()) {
		return ErrInvalidToken
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		l.Error("reset_redeem_hash_error", "error", err)
		return fmt.Errorf("could not update password: %w", err)
	}
	if err := s.Users.UpdatePasswordHash(ctx, row.UserID, pwHash); err != nil {
		l.Error("reset_redeem_update_error", "error", err)
		return fmt.Errorf("could not update password: %w", err)
	}

	won, err := s.Resets.MarkUsed(ctx, row.ID)
	if err != nil {
		l.Error("reset_redeem_mark_used_error", "error", err)
	} else if !won {
		l.Warn("reset_redeem_lost_race", "reset_id", row.ID)
	}

	l.Info("reset_redeem_success", "user_id", row.UserID)
	return nil
}
