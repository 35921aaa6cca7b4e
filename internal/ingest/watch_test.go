package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Watch", func() {
	var (
		root   string
		ctx    context.Context
		cancel context.CancelFunc
		events <-chan string
		errs   <-chan error
	)

	start := func(cfg WatchConfig) {
		cfg.Root = root
		var err error
		events, errs, err = Watch(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
		Expect(err).NotTo(HaveOccurred())
	}

	write := func(rel string) string {
		path := filepath.Join(root, rel)
		Expect(os.WriteFile(path, []byte("x"), 0o644)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		ctx, cancel = context.WithCancel(context.Background())
		DeferCleanup(cancel)
	})

	It("rejects an empty root", func() {
		_, _, err := Watch(ctx, WatchConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		Expect(err).To(HaveOccurred())
	})

	It("emits files already present when an initial scan is requested", func() {
		existing := write("old.jpg")
		start(WatchConfig{InitialScan: true})

		Eventually(events, "5s").Should(Receive(Equal(existing)))
	})

	It("coalesces rapid writes to one emission", func() {
		start(WatchConfig{Debounce: 200 * time.Millisecond})

		path := write("burst.jpg")
		for i := 0; i < 3; i++ {
			Expect(os.WriteFile(path, []byte("xx"), 0o644)).To(Succeed())
		}

		Eventually(events, "5s").Should(Receive(Equal(path)))
		Consistently(events, "300ms").ShouldNot(Receive())
	})

	It("ignores files that are not receipt images", func() {
		start(WatchConfig{})

		write("notes.txt")
		wanted := write("bill.png")

		Eventually(events, "5s").Should(Receive(Equal(wanted)))
	})

	It("picks up images in directories created after start", func() {
		start(WatchConfig{})

		sub := filepath.Join(root, "incoming")
		Expect(os.Mkdir(sub, 0o755)).To(Succeed())
		// give the watcher a beat to register the new directory
		time.Sleep(250 * time.Millisecond)

		path := filepath.Join(sub, "new.jpg")
		Expect(os.WriteFile(path, []byte("x"), 0o644)).To(Succeed())

		Eventually(events, "5s").Should(Receive(Equal(path)))
	})

	It("closes both channels on cancel", func() {
		start(WatchConfig{})

		cancel()
		Eventually(events, "5s").Should(BeClosed())
		Eventually(errs, "5s").Should(BeClosed())
	})
})
