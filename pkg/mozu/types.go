package mozu

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// APITime is a time that tolerates the platform's zone-less timestamps
// (e.g. "2016-03-01T18:31:25.217").
type APITime struct {
	time.Time
}

var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON implements json.Unmarshaler for APITime
func (t *APITime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t.Time = parsed
		return nil
	}
	for _, layout := range zonelessLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("unable to parse time string: %s", raw)
}

// MarshalJSON implements json.Marshaler for APITime
func (t APITime) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// AuditInfo is attached by the platform to every persisted entity
type AuditInfo struct {
	CreateBy   string  `json:"createBy,omitempty"`
	CreateDate APITime `json:"createDate"`
	UpdateBy   string  `json:"updateBy,omitempty"`
	UpdateDate APITime `json:"updateDate"`
}

// AppAuthInfo holds the application credentials exchanged for an auth ticket
type AppAuthInfo struct {
	ApplicationID string `json:"applicationId"`
	SharedSecret  string `json:"sharedSecret"`
}

// AuthTicket is the platform's response to an authentication or refresh request
type AuthTicket struct {
	AccessToken            string  `json:"accessToken"`
	AccessTokenExpiration  APITime `json:"accessTokenExpiration"`
	RefreshToken           string  `json:"refreshToken"`
	RefreshTokenExpiration APITime `json:"refreshTokenExpiration"`
}

// RefreshTicketRequest is the body sent when renewing an access token
type RefreshTicketRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// CustomerAccount represents a shopper account
type CustomerAccount struct {
	ID                    int        `json:"id,omitempty"`
	UserName              string     `json:"userName,omitempty" validate:"required_without=EmailAddress"`
	EmailAddress          string     `json:"emailAddress,omitempty" validate:"required_without=UserName"`
	FirstName             string     `json:"firstName,omitempty"`
	LastName              string     `json:"lastName,omitempty"`
	CompanyOrOrganization string     `json:"companyOrOrganization,omitempty"`
	IsActive              bool       `json:"isActive"`
	AuditInfo             *AuditInfo `json:"auditInfo,omitempty"`
}

// CustomerAccountAndAuthInfo pairs an account with the password it is created with
type CustomerAccountAndAuthInfo struct {
	Account  *CustomerAccount `json:"account" validate:"required"`
	Password string           `json:"password" validate:"required"`
	IsImport bool             `json:"isImport,omitempty"`
}

// CustomerAccountCollection is a page of accounts
type CustomerAccountCollection struct {
	StartIndex int               `json:"startIndex"`
	PageSize   int               `json:"pageSize"`
	PageCount  int               `json:"pageCount"`
	TotalCount int               `json:"totalCount"`
	Items      []CustomerAccount `json:"items"`
}

// CustomerSegment is a named grouping of customer accounts
type CustomerSegment struct {
	ID          int        `json:"id,omitempty"`
	Code        string     `json:"code" validate:"required"`
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description,omitempty"`
	AuditInfo   *AuditInfo `json:"auditInfo,omitempty"`
}

// CustomerSegmentCollection is a page of segments
type CustomerSegmentCollection struct {
	StartIndex int               `json:"startIndex"`
	PageSize   int               `json:"pageSize"`
	PageCount  int               `json:"pageCount"`
	TotalCount int               `json:"totalCount"`
	Items      []CustomerSegment `json:"items"`
}

// ListOptions controls paging, sorting and filtering of collection requests
type ListOptions struct {
	StartIndex int
	PageSize   int
	SortBy     string
	Filter     string
}
