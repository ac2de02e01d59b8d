package lib

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
)

// GetSMTPClient builds a client from SMTP_* environment variables, or
// returns nil when no host is configured. Email is fire-and-forget in
// this system, so a missing mail setup is not fatal.
func GetSMTPClient() (*mail.Client, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil, nil
	}
	port := 587
	if portEnv := os.Getenv("SMTP_PORT"); portEnv != "" {
		if p, err := strconv.Atoi(portEnv); err == nil {
			port = p
		}
	}
	user := os.Getenv("SMTP_USERNAME")
	pass := os.Getenv("SMTP_PASSWORD")
	c, err := mail.NewClient(
		host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(user),
		mail.WithPassword(pass),
	)
	if err != nil {
		logrus.WithError(err).Warn("could not initialize smtp client")
		return nil, err
	}
	return c, nil
}
