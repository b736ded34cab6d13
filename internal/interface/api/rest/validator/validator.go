package validator

import (
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"design-market-api/internal/domain/product"
	domainUser "design-market-api/internal/domain/user"
	"design-market-api/internal/interface/api/rest/dto/auth"
	userDTO "design-market-api/internal/interface/api/rest/dto/user"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt safe
)

func ValidatePage(page string) (int, error) {
	if page == "" {
		return 1, nil
	}
	p, err := strconv.Atoi(page)
	if err != nil || p < 1 {
		return 0, errors.New("invalid page")
	}
	return p, nil
}

func ValidateMaxKeys(maxKeys string) (int32, error) {
	if maxKeys == "" {
		return 100, nil
	}
	n, err := strconv.Atoi(maxKeys)
	if err != nil || n < 1 || n > 1000 {
		return 0, errors.New("maxKeys must be between 1 and 1000")
	}
	return int32(n), nil
}

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

func ValidateRegister(r auth.RegisterRequest) map[string]string {
	errs := make(map[string]string)

	email := strings.ToLower(strings.TrimSpace(r.Email))
	name := strings.TrimSpace(r.DisplayName)

	if email == "" {
		errs["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "invalid email format"
	}

	if l := len(r.Password); l < minPasswordLen || l > maxPasswordLen {
		errs["password"] = "password length must be 8-72 characters"
	}

	if name == "" {
		errs["display_name"] = "display_name is required"
	} else if l := utf8.RuneCountInString(name); l > 64 {
		errs["display_name"] = "display_name must be at most 64 characters"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateLogin(r auth.LoginRequest) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(r.Email) == "" {
		errs["email"] = "email is required"
	}
	if r.Password == "" {
		errs["password"] = "password is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateSubscription(r userDTO.UpdateSubscriptionRequest) map[string]string {
	errs := make(map[string]string)

	switch r.Status {
	case domainUser.SubscriptionFree, domainUser.SubscriptionActive:
	default:
		errs["status"] = "status must be one of: free, active"
	}

	if r.SubscriptionEnd != nil {
		if _, err := time.Parse(time.RFC3339, *r.SubscriptionEnd); err != nil {
			errs["subscription_end"] = "subscription_end must be an RFC 3339 timestamp"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateCategory(c string) error {
	if c == "" || product.ValidCategory(c) {
		return nil
	}
	return errors.New("category must be one of: laser, printing3d, sublimation")
}
