package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Verified identity required
)

// EndpointSecurityConfig maps gRPC methods to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	"/grpc.health.v1.Health/Check": SecurityPublic,

	"/swapcircle.v1.TradeService/ProposeTrade": SecurityAccess,
	"/swapcircle.v1.TradeService/UpdateTrade":  SecurityAccess,
	"/swapcircle.v1.TradeService/GetTrade":     SecurityAccess,
	"/swapcircle.v1.TradeService/CreateReview": SecurityAccess,
	"/swapcircle.v1.TradeService/DeleteItem":   SecurityAccess,
	"/swapcircle.v1.TradeService/SendMessage":  SecurityAccess,
	"/swapcircle.v1.TradeService/ListMessages": SecurityAccess,
	"/swapcircle.v1.TradeService/RegisterUser": SecurityAccess,
}

// GetSecurityLevel returns the security level for a given method
func GetSecurityLevel(method string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
