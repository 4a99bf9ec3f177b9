package main

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"limitd.dev/limitd/cli"
	"limitd.dev/limitd/feed"
	"limitd.dev/limitd/params"
	"limitd.dev/limitd/roads"
	"limitd.dev/limitd/settings"
	"limitd.dev/limitd/utils"
)

func main() {
	utils.Logde(errors.Wrap(godotenv.Load(), "could not load .env file"))

	cli.Handle()

	params.EnsureParamDirectories()
	settings.Settings.LoadWithRetries(10)

	resolver := roads.NewResolver()
	defer resolver.Close()

	pub := feed.NewPublisher[roads.Output](roads.FEED_SPEED_LIMIT)
	state := State{ContainerLoaded: resolver.Available()}

	source := NewFixSource(os.Stdin)
	for {
		fix, ok := source.Next()
		if !ok {
			break
		}
		state.Fix = fix

		result, distance, found := resolver.Resolve(fix.Position())
		if found || !settings.Settings.HoldLastSeenSpeedLimit {
			state.Result = result
			state.Distance = distance
			state.Found = found
		}

		state.HasNext = false
		if settings.Settings.LookAheadEnabled && fix.Bearing != nil && state.Found {
			next, hasNext := roads.LookAhead(resolver, fix.Position(), *fix.Bearing, state.Result.SpeedLimit)
			state.NextSpeedLimit = next
			state.HasNext = hasNext
		}

		output := state.ToOutput()
		if state.SpeedLimit.Update(output.SpeedLimit) {
			slog.Info("speed limit changed", "speedLimit", output.SpeedLimit)
		}

		utils.Loge(pub.Send(state.Found, output))
		logOutput(output)
	}

	persistLastPosition(state)
}

func persistLastPosition(state State) {
	if state.Fix == (Fix{}) {
		return
	}
	data, err := json.Marshal(state.Fix)
	if err != nil {
		utils.Loge(errors.Wrap(err, "could not marshal last position"))
		return
	}
	// next run just starts without a seed position
	utils.Logwe(params.PutParam(params.LAST_POSITION, data))
}
