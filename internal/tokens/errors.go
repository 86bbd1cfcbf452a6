package tokens

import "errors"

var (
	ErrTokenExpired = errors.New("[tokens]: token expired")
	ErrTokenInvalid = errors.New("[tokens]: token invalid")
)
