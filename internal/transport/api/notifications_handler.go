package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/groph-boost/internal/domain"
)

type NotificationsHandler struct {
	notificationSvs NotificationServicer
}

func NewNotificationsHandler(notificationSvs NotificationServicer) *NotificationsHandler {
	return &NotificationsHandler{
		notificationSvs: notificationSvs,
	}
}

type NotificationResponse struct {
	ID        int64                   `json:"ID"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Content   string                  `json:"content"`
	Data      string                  `json:"data,omitempty"`
	IsRead    bool                    `json:"isRead"`
	CreatedAt time.Time               `json:"createdAt"`
}

// Index GET RouteGroup + NotificationsRoute. Параметр unread=true оставляет
// только непрочитанные.
func (n *NotificationsHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)
	onlyUnread := c.Query("unread") == "true"

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	notifications, err := n.notificationSvs.ListForUser(reqCtx, currentUserID, onlyUnread)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if len(notifications) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	response := make([]NotificationResponse, len(notifications))
	for i, notification := range notifications {
		response[i] = NotificationResponse{
			ID:        notification.ID,
			Type:      notification.Type,
			Title:     notification.Title,
			Content:   notification.Content,
			Data:      notification.Data,
			IsRead:    notification.IsRead,
			CreatedAt: notification.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, response)
}

type MarkReadParams struct {
	IDs []int64 `binding:"required,min=1" json:"IDs"`
}

// MarkRead POST RouteGroup + NotificationsReadRoute. Чужие уведомления
// запрос молча игнорирует.
func (n *NotificationsHandler) MarkRead(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params MarkReadParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := n.notificationSvs.MarkRead(reqCtx, currentUserID, params.IDs); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusOK)
}
