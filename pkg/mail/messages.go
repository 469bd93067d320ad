package mail

import "fmt"

// VerificationMessage builds the account activation email carrying the
// verification code.
func VerificationMessage(to, token string) Message {
	body := fmt.Sprintf(
		"Welcome to Campus Lost & Found.\r\n\r\n"+
			"Your activation code is:\r\n\r\n%s\r\n\r\n"+
			"Enter this code to activate your account. The code expires shortly and can only be used once.\r\n",
		token,
	)
	return Message{
		To:      to,
		Subject: "Activate your Campus Lost & Found account",
		Body:    body,
	}
}

// PasswordResetMessage builds the password reset email carrying the reset code.
func PasswordResetMessage(to, token string) Message {
	body := fmt.Sprintf(
		"A password reset was requested for your Campus Lost & Found account.\r\n\r\n"+
			"Your reset code is:\r\n\r\n%s\r\n\r\n"+
			"If you did not request a reset, you can ignore this email. The code expires shortly and can only be used once.\r\n",
		token,
	)
	return Message{
		To:      to,
		Subject: "Reset your Campus Lost & Found password",
		Body:    body,
	}
}
