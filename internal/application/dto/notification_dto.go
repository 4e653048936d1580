package dto

import "time"

// TaskNotificationResponse salida de una notificación de tarea.
type TaskNotificationResponse struct {
	ID           int64      `json:"id"`
	TaskType     string     `json:"task_type"`
	TaskID       string     `json:"task_id"`
	Status       string     `json:"status"`
	ModelName    string     `json:"model_name"`
	FileFormat   string     `json:"file_format"`
	HasFile      bool       `json:"has_file"`
	RecordCount  *int       `json:"record_count"`
	ErrorMessage string     `json:"error_message,omitempty"`
	IsRead       bool       `json:"is_read"`
	Display      string     `json:"display"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

// TaskNotificationListResponse lista paginada + contador de no leídas.
type TaskNotificationListResponse struct {
	Items  []TaskNotificationResponse `json:"items"`
	Unread int                        `json:"unread"`
	Page   PageResponse               `json:"page"`
}

// AsyncExportRequest solicita una exportación en segundo plano.
type AsyncExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv json xml pdf"`
}

// AsyncJobResponse respuesta 202 al encolar una tarea.
type AsyncJobResponse struct {
	NotificationID int64  `json:"notification_id"`
	TaskID         string `json:"task_id"`
	Status         string `json:"status"`
}

// ImportResponse resultado de una importación síncrona.
type ImportResponse struct {
	Count int `json:"count"`
}
