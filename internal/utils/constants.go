package utils

const (
	OrganizationName = "UniteLiving"

	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"
)
