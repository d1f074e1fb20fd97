package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"discord-offices/internal/domain"
	"discord-offices/internal/service"
	httpez "discord-offices/internal/transport/http/ez"
	resp "discord-offices/internal/transport/http/response"
)

// AdminHandler 管理端：用户列表、代建/删除办公室、手动刷新管理员标记
type AdminHandler struct {
	offices *service.OfficeDirectory
	users   *service.UserService
	log     *zap.Logger
}

func NewAdminHandler(offices *service.OfficeDirectory, users *service.UserService, l *zap.Logger) *AdminHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &AdminHandler{offices: offices, users: users, log: l.Named("admin")}
}

type pageIn struct {
	Offset int `form:"offset" binding:"omitempty,min=0"`
	Limit  int `form:"limit"  binding:"omitempty,min=1,max=200"`
}

type adminCreateOfficeIn struct {
	createOfficeIn
	OwnerID string `json:"ownerId" binding:"required"`
}

func (h *AdminHandler) MountAdmin(g *gin.RouterGroup) {
	ez := httpez.New(g, h.log)

	httpez.RegisterAction(ez, httpez.Action[pageIn, resp.Page[domain.User]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *pageIn) (resp.Page[domain.User], error) {
			if in.Limit == 0 {
				in.Limit = 50
			}
			items, total, err := h.users.List(c.Request.Context(), in.Offset, in.Limit)
			if err != nil {
				return resp.Page[domain.User]{}, err
			}
			return resp.NewPage(items, total, in.Offset, in.Limit), nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users/:id/recheck-admin",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.users.RefreshAdmin(c.Request.Context(), c.Param("id"), true)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.OfficeView]{
		Method: http.MethodGet,
		Path:   "/offices",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.OfficeView, error) {
			return h.offices.ListEnrichedOffices(c.Request.Context())
		},
	})

	httpez.RegisterAction(ez, httpez.Action[adminCreateOfficeIn, *domain.OfficeView]{
		Method: http.MethodPost,
		Path:   "/offices",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *adminCreateOfficeIn) (*domain.OfficeView, error) {
			owner, err := h.users.Get(c.Request.Context(), in.OwnerID)
			if err != nil {
				return nil, err
			}
			if owner == nil {
				return nil, httpez.NotFound("owner not found")
			}
			return createOffice(c, h.offices, owner.ID, &in.createOfficeIn)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/offices/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := officeID(c)
			if err != nil {
				return nil, err
			}
			if err := h.offices.DeleteOffice(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
