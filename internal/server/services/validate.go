package services

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)
	contactPattern  = regexp.MustCompile(`^\+?[\d\s-]+$`)
)

const (
	minPasswordLen = 6
	maxPasswordLen = 100

	minContactLen = 10
	maxContactLen = 15

	maxTitleLen = 200
)

func invalid(field string) error {
	return fmt.Errorf("%s: %w", field, common.ErrInvalidFormat)
}

func validateCredentials(username, password, cnic string) error {
	if !usernamePattern.MatchString(username) {
		return invalid("username")
	}
	if n := len(password); n < minPasswordLen || n > maxPasswordLen {
		return invalid("password")
	}
	if !common.IsValidCNIC(cnic) {
		return invalid("cnic")
	}
	return nil
}

func validateItem(item *models.Item) error {
	if item.Type != models.ItemTypeLost && item.Type != models.ItemTypeFound {
		return invalid("type")
	}
	if !slices.Contains(models.Categories, item.Category) {
		return invalid("category")
	}
	if t := strings.TrimSpace(item.Title); t == "" || len(t) > maxTitleLen {
		return invalid("title")
	}
	if strings.TrimSpace(item.Description) == "" {
		return invalid("description")
	}
	if strings.TrimSpace(item.Location) == "" {
		return invalid("location")
	}
	if n := len(item.ContactNumber); n < minContactLen || n > maxContactLen || !contactPattern.MatchString(item.ContactNumber) {
		return invalid("contactNumber")
	}
	return nil
}

func validateFilter(f models.ItemFilter) error {
	if f.Type != "" && f.Type != models.ItemTypeLost && f.Type != models.ItemTypeFound {
		return invalid("type")
	}
	if f.Category != "" && !slices.Contains(models.Categories, f.Category) {
		return invalid("category")
	}
	return nil
}

func validateStatus(status string) error {
	if status != models.ItemStatusOpen && status != models.ItemStatusClosed {
		return invalid("status")
	}
	return nil
}
