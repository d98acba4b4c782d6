package cli

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

// Хранение токена агента в системном keychain.
const (
	keyringService = "conveyor"
	keyringUser    = "agent-token"
)

// Token возвращает токен для API агента.
// Порядок: переменная окружения CONVEYOR_TOKEN, затем keychain.
func Token() string {
	if v := os.Getenv("CONVEYOR_TOKEN"); v != "" {
		return v
	}
	token, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		return ""
	}
	return token
}

// NewLoginCmd создаёт команду сохранения токена агента.
func NewLoginCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store the agent API token in the system keychain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			var token string
			prompt := &survey.Password{Message: "Agent token:"}
			if err := survey.AskOne(prompt, &token, survey.WithValidator(survey.Required)); err != nil {
				return err
			}

			if err := keyring.Set(keyringService, keyringUser, token); err != nil {
				return fmt.Errorf("store token: %w", err)
			}

			out.Success("Token stored")
			return nil
		},
	}
}

// NewLogoutCmd создаёт команду удаления сохранённого токена.
func NewLogoutCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored agent API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			if err := keyring.Delete(keyringService, keyringUser); err != nil {
				if err == keyring.ErrNotFound {
					out.Success("No stored token")
					return nil
				}
				return fmt.Errorf("remove token: %w", err)
			}

			out.Success("Token removed")
			return nil
		},
	}
}
