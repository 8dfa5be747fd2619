package engine_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"tern/internal/config"
	"tern/internal/engine"
	"tern/internal/runner"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Data.Name = "nobel"
	cfg.Index.CatFiles = "cat *.ttl"
	cfg.Index.InputFiles = "*.ttl"
	return &cfg
}

func TestServerCommand(t *testing.T) {
	cfg := testConfig()
	dep := engine.NewDeployment(cfg)

	want := "tern-server -i nobel -j 8 -p 7015 -m 5G -c 2G -e 1G -k 100 -s 30s"
	if got := dep.ServerCommand(); got != want {
		t.Fatalf("ServerCommand() = %q\nwant %q", got, want)
	}

	cfg.Server.AccessToken = "secret"
	if got := dep.ServerCommand(); !strings.HasSuffix(got, " -a secret") {
		t.Fatalf("token missing from %q", got)
	}

	cfg.Server.Timeout = ""
	if got := dep.ServerCommand(); strings.Contains(got, " -s ") {
		t.Fatalf("timeout flag present without timeout: %q", got)
	}
}

func TestServerStartPlanContainer(t *testing.T) {
	cfg := testConfig()
	dep := engine.NewDeployment(cfg)

	plan := dep.ServerStartPlan("/data/nobel")
	if plan.Detached {
		t.Fatal("container plan must not detach through the executor")
	}
	inv := plan.Invocation
	if inv.Program != "docker" {
		t.Fatalf("program = %q", inv.Program)
	}

	joined := strings.Join(inv.Args, " ")
	for _, fragment := range []string{
		"run -d --restart=unless-stopped",
		fmt.Sprintf("-u %d:%d", os.Getuid(), os.Getgid()),
		"-v /data/nobel:/index",
		"-w /index",
		"-p 7015:7015",
		"--entrypoint bash",
		"--name tern.server.nobel",
		"terndata/tern:latest",
	} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("args %q missing %q", joined, fragment)
		}
	}
	inner := inv.Args[len(inv.Args)-1]
	if !strings.HasPrefix(inner, "tern-server -i nobel") || !strings.HasSuffix(inner, "> nobel.server-log.txt 2>&1") {
		t.Errorf("inner command = %q", inner)
	}
}

func TestServerStartPlanNative(t *testing.T) {
	cfg := testConfig()
	cfg.Runtime.System = config.SystemNative
	dep := engine.NewDeployment(cfg)

	plan := dep.ServerStartPlan("/data/nobel")
	if !plan.Detached {
		t.Fatal("native plan must detach")
	}
	if plan.LogFile != "nobel.server-log.txt" {
		t.Fatalf("log file = %q", plan.LogFile)
	}
	if !plan.Invocation.IsShell() {
		t.Fatal("native server runs as a shell command")
	}
	if plan.Invocation.Dir != "/data/nobel" {
		t.Fatalf("dir = %q", plan.Invocation.Dir)
	}
	rendered := plan.Rendered()
	if !strings.HasSuffix(rendered, "> nobel.server-log.txt 2>&1 &") {
		t.Fatalf("rendered = %q", rendered)
	}
}

func TestContainerNamesFollowOverrides(t *testing.T) {
	cfg := testConfig()
	cfg.Runtime.ServerContainer = "custom-server"
	dep := engine.NewDeployment(cfg)

	inv := dep.ServerStopInvocation()
	want := []string{"rm", "-f", "custom-server"}
	if strings.Join(inv.Args, " ") != strings.Join(want, " ") {
		t.Fatalf("args = %v, want %v", inv.Args, want)
	}
}

func TestUIStartInvocation(t *testing.T) {
	cfg := testConfig()
	dep := engine.NewDeployment(cfg)

	inv := dep.UIStartInvocation()
	joined := strings.Join(inv.Args, " ")
	for _, fragment := range []string{
		"run -d --restart=unless-stopped",
		"-p 7000:7000",
		"-e TERN_UI_ENDPOINT=http://localhost:7015",
		"--name tern.ui.nobel",
		"terndata/tern-ui:latest",
	} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("args %q missing %q", joined, fragment)
		}
	}
}

func TestContainerLogsInvocation(t *testing.T) {
	dep := engine.NewDeployment(testConfig())

	follow := dep.ContainerLogsInvocation("tern.ui.nobel", true)
	if got := strings.Join(follow.Args, " "); got != "logs -f tern.ui.nobel" {
		t.Fatalf("follow args = %q", got)
	}
	plain := dep.ContainerLogsInvocation("tern.ui.nobel", false)
	if got := strings.Join(plain.Args, " "); got != "logs tern.ui.nobel" {
		t.Fatalf("plain args = %q", got)
	}
}

type fakeExecutor struct {
	captures []runner.Invocation
	output   string
	err      error
}

func (f *fakeExecutor) Run(ctx context.Context, inv runner.Invocation, opts runner.RunOptions) error {
	f.captures = append(f.captures, inv)
	return f.err
}

func (f *fakeExecutor) Capture(ctx context.Context, inv runner.Invocation) (string, error) {
	f.captures = append(f.captures, inv)
	return f.output, f.err
}

func (f *fakeExecutor) Start(inv runner.Invocation, logPath string) (int, error) {
	f.captures = append(f.captures, inv)
	return 4242, f.err
}

func TestContainerRunningProbe(t *testing.T) {
	dep := engine.NewDeployment(testConfig())

	exec := &fakeExecutor{output: "f3a9c1"}
	running, err := dep.ContainerRunning(context.Background(), exec, "tern.server.nobel")
	if err != nil {
		t.Fatalf("ContainerRunning: %v", err)
	}
	if !running {
		t.Error("expected running=true for non-empty ps output")
	}
	probe := exec.captures[0]
	joined := strings.Join(probe.Args, " ")
	if !strings.Contains(joined, "name=^/tern.server.nobel$") {
		t.Errorf("probe not anchored: %q", joined)
	}

	exec = &fakeExecutor{output: ""}
	running, err = dep.ContainerRunning(context.Background(), exec, "tern.server.nobel")
	if err != nil || running {
		t.Errorf("running=%v err=%v, want false,nil", running, err)
	}

	exec = &fakeExecutor{err: errors.New("docker: not found")}
	if _, err := dep.ContainerRunning(context.Background(), exec, "tern.server.nobel"); err == nil {
		t.Error("expected probe error to surface")
	}
}
