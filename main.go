package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/gridsnake/api"
	"github.com/hoshinonyaruko/gridsnake/audio"
	"github.com/hoshinonyaruko/gridsnake/config"
	"github.com/hoshinonyaruko/gridsnake/game"
	"github.com/hoshinonyaruko/gridsnake/grid"
	"github.com/hoshinonyaruko/gridsnake/memimg"
	"github.com/hoshinonyaruko/gridsnake/render"
	"github.com/hoshinonyaruko/gridsnake/sqlite"
	"github.com/hoshinonyaruko/gridsnake/terminal"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "./config.json", "path of the config file")
	tui := flag.Bool("tui", false, "play in the terminal instead of serving http")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *tui {
		// 终端模式下日志写入文件，避免打乱画面
		f, err := os.OpenFile("gridsnake.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	// Initialize the configuration
	cfg := config.LoadConfig(*configPath)
	log.Printf("config loaded from %s", cfg.Path())
	EnsureFoldersExist("foods", cfg.FrameDir)
	// 加载食物图标
	if err := memimg.LoadFoods("./foods"); err != nil {
		log.Printf("load foods: %v", err)
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer store.Close()

	var sink game.NotificationSink
	if cfg.Audio {
		player := audio.NewPlayer(0.3)
		if err := player.Init(); err != nil {
			log.Printf("audio disabled: %v", err)
		} else {
			defer player.Close()
			sink = player
		}
	}

	g := grid.New(cfg.CellSize, cfg.FieldWidth, cfg.FieldHeight)
	ctx, quit := context.WithCancel(ctx)
	defer quit()
	group, ctx := errgroup.WithContext(ctx)

	// 检测并热更新到内存
	group.Go(func() error {
		return memimg.WatchFoods(ctx, "./foods")
	})

	if *tui {
		err = runTerminal(ctx, quit, group, g, cfg, store, sink)
	} else {
		err = runServer(ctx, group, g, cfg, store, sink)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runServer(ctx context.Context, group *errgroup.Group, g grid.Grid, cfg *config.AppConfig, store *sqlite.Store, sink game.NotificationSink) error {
	hub := api.NewHub(render.NewCanvas(g, cfg.FoodColor), cfg.FrameDir)
	ctrl := game.New(game.Options{
		Grid:     g,
		Config:   cfg.Source(),
		Renderer: hub,
		Store:    store,
		Notify:   sink,
		UI:       hub,
	})
	hub.Attach(ctx, ctrl)
	watchConfig(ctx, group, cfg, ctrl)

	router := api.NewRouter(ctx, ctrl, cfg, store, hub)
	// 从配置单例读取端口 监听
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	group.Go(func() error {
		return hub.Run(ctx)
	})
	group.Go(func() error {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := group.Wait()
	ctrl.Wait()
	return err
}

func runTerminal(ctx context.Context, quit context.CancelFunc, group *errgroup.Group, g grid.Grid, cfg *config.AppConfig, store *sqlite.Store, sink game.NotificationSink) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	term := terminal.New(screen, g)
	ctrl := game.New(game.Options{
		Grid:     g,
		Config:   cfg.Source(),
		Renderer: term,
		Store:    store,
		Notify:   sink,
		UI:       term,
	})
	watchConfig(ctx, group, cfg, ctrl)

	group.Go(func() error {
		// q 退出时结束其余任务
		defer quit()
		return term.Run(ctx, ctrl)
	})

	err = group.Wait()
	ctrl.Wait()
	return err
}

// watchConfig 热更新配置，新的刷新间隔立即生效
func watchConfig(ctx context.Context, group *errgroup.Group, cfg *config.AppConfig, ctrl *game.Controller) {
	group.Go(func() error {
		return cfg.Watch(ctx, ctrl.ConfigChanged)
	})
}

// EnsureFoldersExist 检查并创建必需的文件夹
func EnsureFoldersExist(folders ...string) {
	for _, folder := range folders {
		if folder == "" {
			continue
		}
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			// 文件夹不存在，尝试创建它
			if err := os.MkdirAll(folder, 0755); err != nil {
				log.Fatalf("Failed to create %s directory: %s", folder, err)
			}
			log.Printf("Created %s directory", folder)
		}
	}
}
