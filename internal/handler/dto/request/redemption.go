package request

type ConfirmByCodeRequest struct {
	Code string `json:"code" binding:"required,max=16"`
}

type ConfirmByPayloadRequest struct {
	Payload string `json:"payload" binding:"required,max=4096"`
}
