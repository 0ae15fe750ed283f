// Command protoschema emits a JSON Schema document for every wire payload
// so client and server can validate their contract and editors get
// completion for captured traffic.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/stevepryde/rustonator/internal/game"
	"github.com/stevepryde/rustonator/internal/net/proto"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "write the schema document to this file instead of stdout")
	flag.Parse()

	reflector := &jsonschema.Reflector{}

	schemas := map[string]*jsonschema.Schema{
		"envelope":  reflector.Reflect(&proto.Envelope{}),
		"ping":      reflector.Reflect(&proto.PingPayload{}),
		"action":    reflector.Reflect(&game.Action{}),
		"frameData": reflector.Reflect(&game.FramePayload{}),
		"player":    reflector.Reflect(&game.Player{}),
		"mob":       reflector.Reflect(&game.Mob{}),
		"bomb":      reflector.Reflect(&game.Bomb{}),
		"explosion": reflector.Reflect(&game.Explosion{}),
		"effect":    reflector.Reflect(&game.Effect{}),
		"chunk":     reflector.Reflect(&game.Chunk{}),
	}

	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	document := make(map[string]json.RawMessage, len(schemas))
	for _, name := range names {
		data, err := json.Marshal(schemas[name])
		if err != nil {
			log.Fatalf("marshal schema %s: %v", name, err)
		}
		document[name] = data
	}

	out, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		log.Fatalf("marshal document: %v", err)
	}

	if outPath == "" {
		fmt.Println(string(out))
		return
	}
	if err := os.WriteFile(outPath, append(out, '\n'), 0o644); err != nil {
		log.Fatalf("write %s: %v", outPath, err)
	}
}
