package mail

import (
	"github.com/abisalde/accounts-service/internal/configs"
	"go.uber.org/zap"
)

func NewMailerService(cfg *configs.Config) Mailer {
	if cfg.IsProduction() {
		zap.L().Info("initializing Resend mail service")
		return NewResendMailService(cfg.Mail.EmailAPIKey, cfg.Mail.SenderEmail)
	}

	zap.L().Info("initializing SMTP mail service", zap.String("env", cfg.Env.CurrentEnv))
	return NewSMTPMailService(
		cfg.Mail.SMTPHost,
		cfg.Mail.SMTPPort,
		cfg.Mail.SMTPUsername,
		cfg.Mail.SMTPPassword,
		cfg.Mail.SenderEmail,
	)
}
