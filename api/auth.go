package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionCookie = "stockweb_session"

// 会话签名密钥，进程启动时随机生成，重启后所有会话失效
var sessionSecret = []byte(uuid.NewString())

// Login 密码登录，成功后下发JWT会话cookie
func (h *Handler) Login(c *gin.Context) {
	if !h.cfg.AuthEnabled {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "未启用鉴权"})
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "请求格式错误")
		return
	}

	if req.Password != h.cfg.AuthPassword {
		respondError(c, http.StatusUnauthorized, "密码错误")
		return
	}

	expires := time.Now().Add(h.cfg.SessionTimeout)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "web",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString(sessionSecret)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "创建会话失败")
		return
	}

	c.SetCookie(sessionCookie, signed, int(h.cfg.SessionTimeout.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "expires_at": expires.Format("2006-01-02 15:04:05")})
}

// Logout 注销会话
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// authMiddleware 会话校验中间件，鉴权未启用时直接放行
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.cfg.AuthEnabled {
			c.Next()
			return
		}

		raw, err := c.Cookie(sessionCookie)
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "error": "未登录或会话已过期",
			})
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return sessionSecret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "error": "未登录或会话已过期",
			})
			return
		}

		c.Next()
	}
}
