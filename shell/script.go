package shell

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

// The lua bridge exposes the shell's own commands to scripts, so a
// batch of related puzzles can be driven programmatically:
//
//	amaranta.load("structure1.txt words.txt")
//	print(amaranta.solve())

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("amaranta_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

func luaCmd(L *lua.LState, name string,
	fn func(sc *ShellController, cmd *shellcmd) (*Response, error)) int {

	lv := L.ToString(1)
	sc := getShell(L)
	var args []string
	if strings.TrimSpace(lv) != "" {
		args = strings.Split(lv, " ")
	}
	r, err := fn(sc, &shellcmd{cmd: name, args: args})
	if err != nil {
		log.Err(err).Str("cmd", name).Msg("error-executing-lua-command")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	message := ""
	if r != nil {
		message = r.message
	}
	L.Push(lua.LString(message))
	// return number of results pushed to stack.
	return 1
}

func luaLoad(L *lua.LState) int {
	return luaCmd(L, "load", (*ShellController).load)
}

func luaSolve(L *lua.LState) int {
	return luaCmd(L, "solve", (*ShellController).solve)
}

func luaSet(L *lua.LState) int {
	return luaCmd(L, "set", (*ShellController).set)
}

func luaExport(L *lua.LState) int {
	return luaCmd(L, "export", (*ShellController).export)
}

func luaShow(L *lua.LState) int {
	return luaCmd(L, "show", (*ShellController).show)
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need the name of a lua script")
	}
	L := lua.NewState()
	defer L.Close()

	ud := L.NewUserData()
	ud.Value = sc
	L.SetGlobal("amaranta_shell", ud)

	mod := L.NewTable()
	L.SetField(mod, "load", L.NewFunction(luaLoad))
	L.SetField(mod, "solve", L.NewFunction(luaSolve))
	L.SetField(mod, "set", L.NewFunction(luaSet))
	L.SetField(mod, "export", L.NewFunction(luaExport))
	L.SetField(mod, "show", L.NewFunction(luaShow))
	L.SetGlobal("amaranta", mod)

	if err := L.DoFile(cmd.args[0]); err != nil {
		return nil, err
	}
	return msg("script " + cmd.args[0] + " done"), nil
}
