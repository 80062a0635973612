package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bintangmada/user-management/internal/domain"
	"github.com/bintangmada/user-management/internal/service"
	httpez "github.com/bintangmada/user-management/internal/transport/http/ez"
)

type userOut struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserOut(u domain.User) userOut {
	return userOut{ID: u.ID, Name: u.Name, Email: u.Email}
}

// 分页参数统一从 query 绑定；页码从 1 开始
type pageIn struct {
	Page int    `form:"page,default=1"`
	Size int    `form:"size,default=10"`
	Sort string `form:"sort,default=id"`
	Dir  string `form:"dir,default=asc"`
}

func (p pageIn) request() domain.PageRequest {
	return domain.PageRequest{
		Page: p.Page,
		Size: p.Size,
		Sort: p.Sort,
		Desc: strings.EqualFold(p.Dir, "desc"),
	}
}

func pathID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, httpez.ParamError{Field: "id", Message: "must be a positive number"}
	}
	return id, nil
}

// MountUserActions 用户 CRUD 全部挂在这里
func MountUserActions(api *gin.RouterGroup, svc *service.UserService) {
	e := httpez.New(api)

	type upsertIn struct {
		Name  string `json:"name" binding:"required,max=64"`
		Email string `json:"email" binding:"required,email"`
	}

	// POST /users
	httpez.Register(e, httpez.Action[upsertIn, userOut]{
		Method:  http.MethodPost,
		Path:    "/users",
		Binder:  httpez.BindJSON,
		Status:  http.StatusCreated,
		Message: "User created successfully",
		Handler: func(c *gin.Context, in *upsertIn) (userOut, error) {
			u, err := svc.Create(c.Request.Context(), in.Name, in.Email)
			if err != nil {
				return userOut{}, err
			}
			return toUserOut(*u), nil
		},
	})

	// GET /users
	httpez.Register(e, httpez.Action[pageIn, domain.Page[userOut]]{
		Method:  http.MethodGet,
		Path:    "/users",
		Binder:  httpez.BindQuery,
		Message: "Users retrieved successfully",
		Handler: func(c *gin.Context, in *pageIn) (domain.Page[userOut], error) {
			page, err := svc.List(c.Request.Context(), in.request())
			if err != nil {
				return domain.Page[userOut]{}, err
			}
			return domain.MapPage(page, toUserOut), nil
		},
	})

	// GET /users/search（name/email 可选过滤，永远看不到软删行）
	// 注意不要内嵌 pageIn：未导出的匿名字段 reflect 设不进去
	type searchIn struct {
		Page  int     `form:"page,default=1"`
		Size  int     `form:"size,default=10"`
		Sort  string  `form:"sort,default=id"`
		Dir   string  `form:"dir,default=asc"`
		Name  *string `form:"name"`
		Email *string `form:"email"`
	}
	httpez.Register(e, httpez.Action[searchIn, domain.Page[userOut]]{
		Method:  http.MethodGet,
		Path:    "/users/search",
		Binder:  httpez.BindQuery,
		Message: "User found",
		Handler: func(c *gin.Context, in *searchIn) (domain.Page[userOut], error) {
			req := pageIn{Page: in.Page, Size: in.Size, Sort: in.Sort, Dir: in.Dir}.request()
			page, err := svc.Search(c.Request.Context(), in.Name, in.Email, req)
			if err != nil {
				return domain.Page[userOut]{}, err
			}
			return domain.MapPage(page, toUserOut), nil
		},
	})

	// GET /users/:id
	httpez.Register(e, httpez.Action[struct{}, userOut]{
		Method:  http.MethodGet,
		Path:    "/users/:id",
		Binder:  httpez.BindNone,
		Message: "User retrieved successfully",
		Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
			id, err := pathID(c)
			if err != nil {
				return userOut{}, err
			}
			u, err := svc.GetByID(c.Request.Context(), id)
			if err != nil {
				return userOut{}, err
			}
			return toUserOut(*u), nil
		},
	})

	// PUT /users/:id
	httpez.Register(e, httpez.Action[upsertIn, userOut]{
		Method:  http.MethodPut,
		Path:    "/users/:id",
		Binder:  httpez.BindJSON,
		Message: "User updated successfully",
		Handler: func(c *gin.Context, in *upsertIn) (userOut, error) {
			id, err := pathID(c)
			if err != nil {
				return userOut{}, err
			}
			u, err := svc.Update(c.Request.Context(), id, in.Name, in.Email)
			if err != nil {
				return userOut{}, err
			}
			return toUserOut(*u), nil
		},
	})

	// DELETE /users/:id（软删，重复删同样成功）
	httpez.Register(e, httpez.Action[struct{}, gin.H]{
		Method:  http.MethodDelete,
		Path:    "/users/:id",
		Binder:  httpez.BindNone,
		Message: "User deleted successfully",
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := pathID(c)
			if err != nil {
				return nil, err
			}
			if err := svc.Delete(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
