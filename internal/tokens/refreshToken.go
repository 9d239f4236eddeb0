package tokens

func RefreshClaimsFromToken(tokenStr string, refreshSecret []byte) (*Claims, error) {
	claims, err := parse(tokenStr, refreshSecret)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}
