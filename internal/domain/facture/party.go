package facture

// Address adresse postale d'une partie. L'adresse de livraison est obligatoire
// si elle diffère de l'adresse de facturation (réforme sept. 2026).
type Address struct {
	Street             string
	AdditionalStreet   string
	City               string
	PostalCode         string
	CountryCode        string // Code pays ISO 3166-1 alpha-2, "FR" par défaut
	CountrySubdivision string
}

// Party partie impliquée dans une facture (vendeur ou acheteur), avec les
// informations d'identification exigées par la réforme 2026 (SIREN notamment).
type Party struct {
	Name            string // Raison sociale
	SIREN           string // 9 chiffres, mention obligatoire sept. 2026
	SIRET           string // 14 chiffres, optionnel
	VATNumber       string // Numéro de TVA intracommunautaire
	RegistrationID  string // Identifiant d'enregistrement légal
	Address         Address
	DeliveryAddress *Address // Adresse de livraison si différente
	Email           string
	Phone           string
}
