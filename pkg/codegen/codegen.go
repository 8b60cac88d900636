package codegen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// InviteCodeLength 邀请码默认长度
	InviteCodeLength = 6

	inviteAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	confirmMin = 1000
	confirmMax = 9999
)

// Generator 验证码与邀请码生成器（便于测试注入固定序列）
type Generator interface {
	ConfirmationCode() (string, error)
	InviteCode() (string, error)
}

// NewGenerator 返回基于 crypto/rand 的默认生成器
func NewGenerator() Generator { return randomGenerator{} }

type randomGenerator struct{}

func (randomGenerator) ConfirmationCode() (string, error) { return GenerateConfirmationCode() }
func (randomGenerator) InviteCode() (string, error)       { return GenerateInviteCode(InviteCodeLength) }

// GenerateConfirmationCode 生成 4 位数字验证码，均匀分布于 [1000, 9999]
func GenerateConfirmationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(confirmMax-confirmMin+1))
	if err != nil {
		return "", fmt.Errorf("生成验证码失败: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+confirmMin), nil
}

// GenerateInviteCode 生成指定长度的字母数字邀请码。
// 每一位独立均匀抽取，不保证全局唯一，唯一性由存储层约束保证。
func GenerateInviteCode(length int) (string, error) {
	if length <= 0 {
		length = InviteCodeLength
	}
	max := big.NewInt(int64(len(inviteAlphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("生成邀请码失败: %w", err)
		}
		code[i] = inviteAlphabet[n.Int64()]
	}
	return string(code), nil
}
