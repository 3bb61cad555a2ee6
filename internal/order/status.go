package order

type Status string

const (
	StatusPending   Status = "Pending"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
	StatusCanceled  Status = "Canceled"
)

type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "Paid"
	PaymentUnpaid   PaymentStatus = "Unpaid"
	PaymentRefunded PaymentStatus = "Refunded"
	PaymentPending  PaymentStatus = "Pending"
	PaymentFailed   PaymentStatus = "Failed"
)
