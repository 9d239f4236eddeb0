package tokens

// AccessClaimsFromToken rejects tokens carrying a jti so a refresh token is
// never accepted in place of an access token.
func AccessClaimsFromToken(tokenStr string, accessSecret []byte) (*Claims, error) {
	claims, err := parse(tokenStr, accessSecret)
	if err != nil {
		return nil, err
	}
	if claims.ID != "" {
		return nil, ErrInvalid
	}
	return claims, nil
}
