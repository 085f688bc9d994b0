package enums

// Currency is the ISO 4217 code an order's totals are denominated in.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

var validCurrencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyGBP}

func (c Currency) String() string { return string(c) }

func (c Currency) IsValid() bool { return isMember(validCurrencies, c) }

func ParseCurrency(value string) (Currency, error) {
	return parseMember(validCurrencies, value, "currency")
}
