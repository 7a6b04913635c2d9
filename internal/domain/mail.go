package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type StaffAccountMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ScheduleCreatedMailItem struct {
	Name      string `json:"name"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type ScheduleCreatedMailData struct {
	FullName string                    `json:"fullName"`
	Count    int                       `json:"count"`
	Items    []ScheduleCreatedMailItem `json:"items"`
}
