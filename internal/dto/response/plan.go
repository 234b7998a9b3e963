package response

type PlanResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	BasePriceUSD string   `json:"base_price_usd"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
}
