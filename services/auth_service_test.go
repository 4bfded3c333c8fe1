package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type AuthServiceSuite struct {
	suite.Suite

	ctx      context.Context
	userRepo *fakeUserRepo
	service  AuthService
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.userRepo = newFakeUserRepo()
	s.service = NewAuthService(s.userRepo)
}

func (s *AuthServiceSuite) TestRegisterNormalizesEmail() {
	user, err := s.service.Register(s.ctx, RegisterInput{
		Email:       "  Ana@Example.COM ",
		Password:    "correct horse",
		DisplayName: " Ana ",
	})
	s.Require().NoError(err)
	s.Equal("ana@example.com", user.Email)
	s.Equal("Ana", user.DisplayName)
	s.Empty(user.PasswordHash)
	s.NotZero(user.ID)
}

func (s *AuthServiceSuite) TestRegisterRequiresEmail() {
	_, err := s.service.Register(s.ctx, RegisterInput{Email: "   ", Password: "longenough"})
	s.ErrorIs(err, ErrEmailRequired)
}

func (s *AuthServiceSuite) TestRegisterRejectsShortPassword() {
	_, err := s.service.Register(s.ctx, RegisterInput{Email: "ana@example.com", Password: "short"})
	s.ErrorIs(err, ErrPasswordTooShort)
}

func (s *AuthServiceSuite) TestRegisterDuplicateEmail() {
	_, err := s.service.Register(s.ctx, RegisterInput{Email: "ana@example.com", Password: "longenough"})
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, RegisterInput{Email: "ANA@example.com", Password: "longenough"})
	s.ErrorIs(err, ErrAuthEmailTaken)
}

func (s *AuthServiceSuite) TestLoginRoundTrip() {
	_, err := s.service.Register(s.ctx, RegisterInput{Email: "ana@example.com", Password: "longenough"})
	s.Require().NoError(err)

	user, err := s.service.Login(s.ctx, LoginInput{Email: "Ana@Example.com", Password: "longenough"})
	s.Require().NoError(err)
	s.Equal("ana@example.com", user.Email)
	s.Empty(user.PasswordHash)
}

func (s *AuthServiceSuite) TestLoginWrongPassword() {
	_, err := s.service.Register(s.ctx, RegisterInput{Email: "ana@example.com", Password: "longenough"})
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, LoginInput{Email: "ana@example.com", Password: "not the one"})
	s.ErrorIs(err, ErrAuthInvalidCredentials)
}

func (s *AuthServiceSuite) TestLoginUnknownEmail() {
	_, err := s.service.Login(s.ctx, LoginInput{Email: "ghost@example.com", Password: "whatever"})
	s.ErrorIs(err, ErrAuthInvalidCredentials)
}
