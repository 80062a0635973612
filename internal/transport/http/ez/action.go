// Package ez 一行注册动作接口：绑定入参、调业务、统一映射错误码和外壳。
// 这是 domain 错误值翻译成 HTTP 状态码的唯一位置。
package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/bintangmada/user-management/internal/domain"
	resp "github.com/bintangmada/user-management/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON body 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/users"、"/users/:id"
	Binder  Binder
	Status  int    // 成功状态码，0 按 200
	Message string // 成功外壳的 message
	Handler func(c *gin.Context, in *I) (O, error)
}

func Register[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			WriteValidation(c, bindErr)
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			WriteError(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, resp.Success(a.Message, out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// ParamError 路径/查询参数形状不对（绑定 tag 覆盖不到的场景）
type ParamError struct {
	Field   string
	Message string
}

func (e ParamError) Error() string { return e.Field + " " + e.Message }

// WriteError domain 错误 → 状态码；其余一律 500，不外泄内部细节
func WriteError(c *gin.Context, err error) {
	path := c.Request.URL.Path

	var pe ParamError
	if errors.As(err, &pe) {
		c.AbortWithStatusJSON(http.StatusBadRequest, resp.Failure(
			http.StatusBadRequest, "Validation failed", path,
			map[string][]string{pe.Field: {pe.Message}},
		))
		return
	}
	var nf domain.NotFoundError
	if errors.As(err, &nf) {
		c.AbortWithStatusJSON(http.StatusNotFound, resp.Failure(
			http.StatusNotFound, "Resource not found", path,
			map[string][]string{nf.Field: {nf.Error()}},
		))
		return
	}
	var dup domain.DuplicateError
	if errors.As(err, &dup) {
		c.AbortWithStatusJSON(http.StatusConflict, resp.Failure(
			http.StatusConflict, "Duplicate resource", path,
			map[string][]string{dup.Field: {dup.Message}},
		))
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Failure(
		http.StatusInternalServerError, "Internal server error", path,
		map[string][]string{"error": {err.Error()}},
	))
}

// WriteValidation 绑定/校验失败 → 400，按字段聚合消息
func WriteValidation(c *gin.Context, err error) {
	errs := map[string][]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			f := jsonField(fe.Field())
			errs[f] = append(errs[f], tagMessage(fe))
		}
	} else {
		errs["body"] = []string{err.Error()}
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, resp.Failure(
		http.StatusBadRequest, "Validation failed", c.Request.URL.Path, errs,
	))
}

func jsonField(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be blank"
	case "email":
		return "must be a well-formed email address"
	case "max":
		return "must not be longer than " + fe.Param()
	case "min":
		return "must not be less than " + fe.Param()
	default:
		return "is invalid"
	}
}
