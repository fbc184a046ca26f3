package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"timetable-backend/lib/serviceutil"
)

const bannerTemplate = `{
  // endpoint: "https://selfservice.banner.vt.edu/ssb/HZSKVTSC.P_ProcRequest",
  term: "",
  subject: "CS",
  course_code: "CS-2114",
}
`

const localConfigTemplate = `{
  fetcher: {
    dump_dir: "<dev_state>/http_dumps",
  },
}
`

func writeIfMissing(path, contents string) error {
	_, err := os.Stat(path)
	if err == nil {
		slog.Info("keeping existing file", "path", path)
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(contents), 0600)
}

func create(recreate bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	if recreate {
		err = os.RemoveAll("dev/.state")
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	err = os.MkdirAll("dev/.state", 0777)
	if err != nil && !os.IsExist(err) {
		return err
	}

	bannerConfig := filepath.Join("dev", ".state", "banner.json5")
	err = writeIfMissing(bannerConfig, bannerTemplate)
	if err != nil {
		return err
	}
	err = writeIfMissing("timetable.local.json5", localConfigTemplate)
	if err != nil {
		return err
	}

	fmt.Println("Config locations:")
	fmt.Println("\tlive fetcher tests:", bannerConfig)
	fmt.Println("\tlocal cli overrides: timetable.local.json5")
	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	flag.Parse()

	err := create(*recreate)
	if err != nil {
		serviceutil.Fatal("failed to create dev environment", err)
	}

	slog.Info("dev environment created sucessfully!")
}
