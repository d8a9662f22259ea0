package models

// LoginRequest 管理员登录请求
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// SummarizeRequest 论文摘要请求
type SummarizeRequest struct {
	PaperText string `json:"paperText"`
}

// SummarizeResponse 论文摘要结果
type SummarizeResponse struct {
	Summary string `json:"summary"`
}

// ContactInfo 联系页面的静态信息
type ContactInfo struct {
	Lab     string `json:"lab"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone,omitempty"`
}
