package service

import "regexp"

var (
	phonePattern      = regexp.MustCompile(`^\+?\d{10,15}$`)
	inviteCodePattern = regexp.MustCompile(`^[a-zA-Z0-9]{6}$`)
)

// ValidatePhone 校验手机号：10-15 位数字，可带前导 +
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhoneFormat
	}
	return nil
}

// ValidateInviteCode 校验邀请码：6 位字母或数字，区分大小写
func ValidateInviteCode(code string) error {
	if !inviteCodePattern.MatchString(code) {
		return ErrInvalidInviteCodeFormat
	}
	return nil
}
