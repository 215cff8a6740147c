package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

// viaCEPAddress mirrors the lookup service payload. Area codes arrive as
// strings; "erro" is a bool on older deployments and the string "true" on
// newer ones.
type viaCEPAddress struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
	IBGE        string `json:"ibge"`
	GIA         string `json:"gia"`
	DDD         string `json:"ddd"`
	SIAFI       string `json:"siafi"`
	Erro        any    `json:"erro"`
}

func (v *viaCEPAddress) notFound() bool {
	switch e := v.Erro.(type) {
	case bool:
		return e
	case string:
		return strings.EqualFold(e, "true")
	default:
		return false
	}
}

type addressHTTPClient struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

func NewAddressHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) domain.AddressLookup {
	return &addressHTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

// Lookup expects an already normalized 8-digit postal code.
func (c *addressHTTPClient) Lookup(ctx context.Context, postalCode string) (*domain.Address, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, postalCode)
	c.log.Infof("AddressClient: Requesting address from URL: %s", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.log.Errorf("AddressClient: Failed to create request for %s: %v", postalCode, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("AddressClient: Failed to execute request for %s: %v", postalCode, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.log.Warnf("AddressClient: Postal code %s not found (status %d)", postalCode, resp.StatusCode)
		return nil, domain.ErrPostalCodeNotFound
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Errorf("AddressClient: Request for %s failed with status %d", postalCode, resp.StatusCode)
		return nil, fmt.Errorf("%w: lookup service returned status %d", domain.ErrLookupFailed, resp.StatusCode)
	}

	var payload viaCEPAddress
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Errorf("AddressClient: Failed to decode response for %s: %v", postalCode, err)
		return nil, fmt.Errorf("%w: could not decode response: %v", domain.ErrLookupFailed, err)
	}
	if payload.notFound() {
		c.log.Infof("AddressClient: Postal code %s does not exist", postalCode)
		return nil, domain.ErrPostalCodeNotFound
	}

	address := &domain.Address{
		PostalCode:   postalCode,
		Street:       payload.Logradouro,
		Complement:   payload.Complemento,
		Neighborhood: payload.Bairro,
		City:         payload.Localidade,
		Region:       payload.UF,
		IBGE:         atoiOrZero(payload.IBGE),
		GIA:          atoiOrZero(payload.GIA),
		DDD:          atoiOrZero(payload.DDD),
		SIAFI:        atoiOrZero(payload.SIAFI),
	}
	c.log.Infof("AddressClient: Resolved %s to %s, %s/%s", postalCode, address.Street, address.City, address.Region)
	return address, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
