package client

import (
	"context"
	"net/http"

	"github.com/dtroode/recipai/internal/api/router"
	"github.com/dtroode/recipai/internal/model"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type authResponse struct {
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	var resp authResponse
	err := c.do(ctx, call{
		route: router.Login,
		body:  loginRequest{Email: email, Password: password},
		out:   &resp,
	})
	if err != nil {
		return model.AuthResult{}, err
	}
	return toAuthResult(resp)
}

// Signup creates an account and returns its session token.
func (c *Client) Signup(ctx context.Context, email, password, username string) (model.AuthResult, error) {
	var resp authResponse
	err := c.do(ctx, call{
		route: router.Signup,
		body:  signupRequest{Email: email, Password: password, Username: username},
		out:   &resp,
	})
	if err != nil {
		return model.AuthResult{}, err
	}
	return toAuthResult(resp)
}

func toAuthResult(resp authResponse) (model.AuthResult, error) {
	if resp.Token == "" {
		return model.AuthResult{}, &model.RemoteError{Status: http.StatusOK, Reason: "response carries no token"}
	}
	return model.AuthResult{Token: resp.Token, Username: resp.Username}, nil
}
