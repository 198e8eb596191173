package domain

// ShoppingListFilename is the attachment name for the rendered list.
const ShoppingListFilename = "shopping_cart.txt"

var (
	MessageSuccessDownloadCart = "success download shopping cart"
	MessageFailedDownloadCart  = "failed to download shopping cart"
)

type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}
