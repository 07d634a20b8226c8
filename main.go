package main

import (
	"log"
	"runtime"

	"github.com/pmrjg/vkwin/renderer"
)

func main() {
	runtime.LockOSThread()

	r := &renderer.Renderer{}
	if err := r.Run(); err != nil {
		log.Fatalf("%+v\n", err)
	}
}
