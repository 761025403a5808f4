package interfaces

import (
	"context"

	"github.com/customeros/sleeper/dto"
)

type GuerrillaMailClient interface {
	GetEmailAddress(ctx context.Context, ip, agent string) (*dto.EmailAddress, error)
	SetEmailUser(ctx context.Context, sidToken, emailUser, lang string) (*dto.EmailAddress, error)
	GetEmailList(ctx context.Context, sidToken string, offset int) (*dto.EmailList, error)
	FetchEmail(ctx context.Context, sidToken, emailID string) (*dto.Email, error)
}
