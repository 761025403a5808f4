package dto

import (
	"bytes"
	"encoding/json"
)

// FlexibleString decodes a JSON string or number into its textual form.
// The mailbox API sends ids and timestamps as either.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexibleString(n.String())
	return nil
}

func (f FlexibleString) String() string {
	return string(f)
}

// WelcomeMailID is the id of the greeting the mailbox service drops into every new inbox.
const WelcomeMailID = "1"

// EmailAddress is returned by get_email_address and set_email_user.
type EmailAddress struct {
	EmailAddr      string         `json:"email_addr"`
	EmailTimestamp FlexibleString `json:"email_timestamp"`
	Alias          string         `json:"alias"`
	AliasError     string         `json:"alias_error"`
	SidToken       string         `json:"sid_token"`
	Lang           string         `json:"lang"`
	Domain         string         `json:"domain"`
}

type EmailSummary struct {
	MailID        FlexibleString `json:"mail_id"`
	MailFrom      string         `json:"mail_from"`
	MailSubject   string         `json:"mail_subject"`
	MailExcerpt   string         `json:"mail_excerpt"`
	MailTimestamp FlexibleString `json:"mail_timestamp"`
	MailRead      FlexibleString `json:"mail_read"`
	MailDate      string         `json:"mail_date"`

	// Body is filled in by a separate fetch_email call.
	Body string `json:"-"`
}

// IsWelcome compares the id verbatim. Ids are opaque, so "01" or " 1" are scanned.
func (s EmailSummary) IsWelcome() bool {
	return s.MailID.String() == WelcomeMailID
}

// EmailList is returned by get_email_list.
type EmailList struct {
	List     []EmailSummary `json:"list"`
	Count    FlexibleString `json:"count"`
	Email    string         `json:"email"`
	Ts       FlexibleString `json:"ts"`
	SidToken string         `json:"sid_token"`
}

// Email is returned by fetch_email.
type Email struct {
	MailID        FlexibleString `json:"mail_id"`
	MailFrom      string         `json:"mail_from"`
	MailSubject   string         `json:"mail_subject"`
	MailExcerpt   string         `json:"mail_excerpt"`
	MailBody      string         `json:"mail_body"`
	MailTimestamp FlexibleString `json:"mail_timestamp"`
	MailDate      string         `json:"mail_date"`
	SidToken      string         `json:"sid_token"`
}
