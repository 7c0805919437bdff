package booking

type GetManyBookingRequest struct {
	Page int64 `validate:"required,min=1"`
	Size int64 `validate:"required,min=1,max=100"`
}

type ReviewVoucherRequest struct {
	Approved bool   `json:"approved"`
	Comment  string `json:"comment"`
}
