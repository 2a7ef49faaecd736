package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/gridsnake/config"
	"github.com/hoshinonyaruko/gridsnake/game"
	"github.com/hoshinonyaruko/gridsnake/render"
	"github.com/hoshinonyaruko/gridsnake/sqlite"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

// NewRouter 注册所有路由。ctx 为整个进程的生命周期，游戏循环以它为界
func NewRouter(ctx context.Context, ctrl *game.Controller, cfg *config.AppConfig, store *sqlite.Store, hub *Hub) *gin.Engine {
	router := gin.Default()
	// 开始和重新开始
	router.POST("/start", StartGame(ctx, ctrl))
	router.POST("/restart", RestartGame(ctx, ctrl))
	// 处理玩家改变方向
	router.GET("/update-direction", UpdateDirection(ctrl))
	// 穿墙和颜色
	router.GET("/config", GetConfig(cfg))
	router.POST("/config", UpdateConfig(cfg))
	router.GET("/state", GetState(ctrl))
	// 渲染函数 返回png
	router.GET("/render-map", RenderMapHandler(ctrl, hub.Canvas))
	router.GET("/history", HistoryHandler(store))
	router.GET("/ws", hub.HandleWS())
	if dir, ok := cfg.Value("framedir").(string); ok && dir != "" {
		router.Static("/static", dir) // 静态文件服务
	}
	return router
}

func StartGame(ctx context.Context, ctrl *game.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondStart(c, ctrl, ctrl.Start(ctx))
	}
}

func RestartGame(ctx context.Context, ctrl *game.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondStart(c, ctrl, ctrl.Restart(ctx))
	}
}

func respondStart(c *gin.Context, ctrl *game.Controller, err error) {
	if errors.Is(err, game.ErrAlreadyRunning) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

func UpdateDirection(ctrl *game.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		newDirection := c.Query("direction")

		// 验证是否提供了必要的查询参数
		if newDirection == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: direction"})
			return
		}
		d, ok := structs.ParseDirection(newDirection)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid direction '" + newDirection + "' provided"})
			return
		}

		// 反方向会被忽略，不是错误
		accepted := ctrl.OnDirectionRequested(d)
		c.JSON(http.StatusOK, gin.H{"accepted": accepted, "direction": d.String()})
	}
}

func GetConfig(cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"wallpass":       cfg.WallPassEnabled(),
			"snakecolor":     cfg.CurrentSnakeColor(),
			"tickintervalms": cfg.Value("tickintervalms"),
		})
	}
}

// UpdateConfig 修改穿墙开关和蛇的颜色，下一次刷新生效
func UpdateConfig(cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v := c.Query("wallpass"); v != "" {
			enabled, err := strconv.ParseBool(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "wallpass must be a boolean"})
				return
			}
			if err := cfg.SetWallPass(enabled); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		if v := c.Query("snakecolor"); v != "" {
			if err := cfg.SetSnakeColor(v); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		GetConfig(cfg)(c)
	}
}

func GetState(ctrl *game.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, ctrl.Snapshot())
	}
}

func RenderMapHandler(ctrl *game.Controller, canvas *render.Canvas) gin.HandlerFunc {
	return func(c *gin.Context) {
		scale, err := strconv.ParseFloat(c.DefaultQuery("scale", "1"), 64)
		if err != nil || scale <= 0 || scale > 4 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scale must be in (0, 4]"})
			return
		}
		opts := render.FrameOptions{Scale: scale}
		if ctrl.State() == structs.StateGameOver {
			opts.Banner = "GAME OVER"
		}

		c.Header("Content-Type", "image/png")
		c.Header("Cache-Control", "no-store")
		c.Status(http.StatusOK)
		if err := canvas.WritePNG(c.Writer, opts); err != nil {
			c.Error(err)
		}
	}
}

func HistoryHandler(store *sqlite.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit <= 0 || limit > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be in 1-100"})
			return
		}
		games, err := store.RecentGames(limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch history"})
			return
		}
		if games == nil {
			games = []structs.GameRecord{}
		}
		c.JSON(http.StatusOK, gin.H{"games": games})
	}
}
