package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"discord-offices/internal/domain"
	"discord-offices/internal/policy"
	"discord-offices/internal/service"
	httpez "discord-offices/internal/transport/http/ez"
	mdw "discord-offices/internal/transport/http/middleware"
)

type OfficeHandler struct {
	offices *service.OfficeDirectory
	users   *service.UserService
	log     *zap.Logger
}

func NewOfficeHandler(offices *service.OfficeDirectory, users *service.UserService, l *zap.Logger) *OfficeHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &OfficeHandler{offices: offices, users: users, log: l}
}

type createOfficeIn struct {
	Name        string  `json:"name"        binding:"required,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	IsPrivate   *bool   `json:"isPrivate"`
	OwnerID     string  `json:"ownerId"` // 仅管理员可代建
}

type updateOfficeIn struct {
	Name        *string              `json:"name"        binding:"omitempty,max=100"`
	Description *string              `json:"description" binding:"omitempty,max=1000"`
	IsPrivate   *bool                `json:"isPrivate"`
	Status      *domain.OfficeStatus `json:"status"`
}

type inviteIn struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *OfficeHandler) MountAPI(g *gin.RouterGroup) {
	ez := httpez.New(g, h.log)

	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.OfficeView]{
		Method: http.MethodGet,
		Path:   "/offices",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.OfficeView, error) {
			u := mdw.CurrentUser(c)
			if policy.CanCreateOrListAllOffices(u) {
				return h.offices.ListEnrichedOffices(c.Request.Context())
			}
			return h.offices.ListAvailableOffices(c.Request.Context(), u.ID)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.OfficeView]{
		Method: http.MethodGet,
		Path:   "/offices/available",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.OfficeView, error) {
			return h.offices.ListAvailableOffices(c.Request.Context(), mdw.CurrentUser(c).ID)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.OfficeView]{
		Method: http.MethodGet,
		Path:   "/offices/mine",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.OfficeView, error) {
			return h.offices.GetUserOffice(c.Request.Context(), mdw.CurrentUser(c).ID)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[createOfficeIn, *domain.OfficeView]{
		Method:  http.MethodPost,
		Path:    "/offices",
		Binder:  httpez.BindJSON,
		Handler: h.create,
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.OfficeView]{
		Method: http.MethodGet,
		Path:   "/offices/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.OfficeView, error) {
			v, err := h.load(c)
			if err != nil {
				return nil, err
			}
			u := mdw.CurrentUser(c)
			if !policy.CanView(u, &v.Office, isMemberOf(v, u.ID)) {
				return nil, httpez.Forbidden("office is private")
			}
			return v, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[updateOfficeIn, *domain.OfficeView]{
		Method: http.MethodPatch,
		Path:   "/offices/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *updateOfficeIn) (*domain.OfficeView, error) {
			v, err := h.loadManaged(c)
			if err != nil {
				return nil, err
			}
			return h.offices.UpdateOffice(c.Request.Context(), v.ID, service.UpdateOfficeInput{
				Name:        in.Name,
				Description: in.Description,
				IsPrivate:   in.IsPrivate,
				Status:      in.Status,
			})
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/offices/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			v, err := h.loadManaged(c)
			if err != nil {
				return nil, err
			}
			if err := h.offices.DeleteOffice(c.Request.Context(), v.ID); err != nil {
				return nil, err
			}
			return gin.H{"id": v.ID}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.OfficeView]{
		Method:  http.MethodPost,
		Path:    "/offices/:id/join",
		Binder:  httpez.BindNone,
		Handler: h.join,
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.OfficeView]{
		Method: http.MethodPost,
		Path:   "/offices/:id/leave",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.OfficeView, error) {
			id, err := officeID(c)
			if err != nil {
				return nil, err
			}
			if err := h.offices.RemoveMember(c.Request.Context(), id, mdw.CurrentUser(c).ID); err != nil {
				return nil, err
			}
			return h.offices.GetEnrichedOffice(c.Request.Context(), id)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[inviteIn, *domain.OfficeView]{
		Method:  http.MethodPost,
		Path:    "/offices/:id/members",
		Binder:  httpez.BindJSON,
		Handler: h.invite,
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.OfficeView]{
		Method: http.MethodDelete,
		Path:   "/offices/:id/members/:userId",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.OfficeView, error) {
			v, err := h.loadManaged(c)
			if err != nil {
				return nil, err
			}
			if err := h.offices.RemoveMember(c.Request.Context(), v.ID, c.Param("userId")); err != nil {
				return nil, err
			}
			return h.offices.GetEnrichedOffice(c.Request.Context(), v.ID)
		},
	})
}

func (h *OfficeHandler) create(c *gin.Context, in *createOfficeIn) (*domain.OfficeView, error) {
	u := mdw.CurrentUser(c)
	ownerID := u.ID
	if in.OwnerID != "" && in.OwnerID != u.ID {
		if !policy.CanCreateOrListAllOffices(u) {
			return nil, httpez.Forbidden("only admins can create offices for other users")
		}
		owner, err := h.users.Get(c.Request.Context(), in.OwnerID)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			return nil, httpez.NotFound("owner not found")
		}
		ownerID = owner.ID
	}
	return createOffice(c, h.offices, ownerID, in)
}

func (h *OfficeHandler) join(c *gin.Context, _ *struct{}) (*domain.OfficeView, error) {
	v, err := h.load(c)
	if err != nil {
		return nil, err
	}
	u := mdw.CurrentUser(c)
	member, err := h.offices.IsMember(c.Request.Context(), v.ID, u.ID)
	if err != nil {
		return nil, err
	}
	if !policy.CanJoin(&v.Office, u.ID, member) {
		return nil, httpez.Forbidden("office is private")
	}
	if member {
		return nil, domain.ErrDuplicateMember
	}
	if _, err := h.offices.AddMember(c.Request.Context(), v.ID, u.ID, false); err != nil {
		return nil, err
	}
	return h.offices.GetEnrichedOffice(c.Request.Context(), v.ID)
}

func (h *OfficeHandler) invite(c *gin.Context, in *inviteIn) (*domain.OfficeView, error) {
	v, err := h.loadManaged(c)
	if err != nil {
		return nil, err
	}
	invitee, err := h.users.Get(c.Request.Context(), in.UserID)
	if err != nil {
		return nil, err
	}
	if invitee == nil {
		return nil, httpez.NotFound("user not found")
	}
	member, err := h.offices.IsMember(c.Request.Context(), v.ID, invitee.ID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, domain.ErrDuplicateMember
	}
	if _, err := h.offices.AddMember(c.Request.Context(), v.ID, invitee.ID, false); err != nil {
		return nil, err
	}
	return h.offices.GetEnrichedOffice(c.Request.Context(), v.ID)
}

func (h *OfficeHandler) load(c *gin.Context) (*domain.OfficeView, error) {
	id, err := officeID(c)
	if err != nil {
		return nil, err
	}
	v, err := h.offices.GetEnrichedOffice(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrOfficeNotFound
	}
	return v, nil
}

// loadManaged owner 或管理员
func (h *OfficeHandler) loadManaged(c *gin.Context) (*domain.OfficeView, error) {
	v, err := h.load(c)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageOffice(mdw.CurrentUser(c), &v.Office) {
		return nil, httpez.Forbidden("not allowed to manage this office")
	}
	return v, nil
}

func createOffice(c *gin.Context, offices *service.OfficeDirectory, ownerID string, in *createOfficeIn) (*domain.OfficeView, error) {
	isPrivate := true
	if in.IsPrivate != nil {
		isPrivate = *in.IsPrivate
	}
	v, err := offices.CreateOffice(c.Request.Context(), service.CreateOfficeInput{
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		IsPrivate:   isPrivate,
	})
	if errors.Is(err, domain.ErrOfficeLimit) {
		return nil, httpez.Conflict("user already owns an office")
	}
	return v, err
}

func officeID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, httpez.BadRequest("invalid office id")
	}
	return uint(id), nil
}

func isMemberOf(v *domain.OfficeView, userID string) bool {
	for _, m := range v.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
